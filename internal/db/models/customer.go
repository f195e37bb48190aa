package models

// Customer owns motorcycles brought to the shop
type Customer struct {
	Base
	Name        string       `json:"name" gorm:"not null;index"`
	Email       string       `json:"email,omitempty"`
	Phone       string       `json:"phone,omitempty"`
	Motorcycles []Motorcycle `json:"motorcycles,omitempty" gorm:"foreignKey:CustomerID"`
}

// Motorcycle is a customer's vehicle; repair jobs hang off it
type Motorcycle struct {
	Base
	CustomerID string           `json:"customer_id" gorm:"type:varchar(36);not null;index"`
	Customer   *Customer        `json:"customer,omitempty"`
	ModelID    *string          `json:"model_id,omitempty" gorm:"type:varchar(36);index"`
	Model      *MotorcycleModel `json:"model,omitempty" gorm:"constraint:OnDelete:SET NULL"`
	Plate      string           `json:"plate" gorm:"not null;index"`
	Year       int              `json:"year,omitempty"`
}
