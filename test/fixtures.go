package test

import (
	"time"

	"github.com/motorepair/admin/internal/db/models"
)

// CreateCustomer stores a customer created at the current environment time
func (e *TestEnvironment) CreateCustomer(name string) *models.Customer {
	customer := &models.Customer{Name: name, Base: models.Base{CreatedAt: e.now}}
	e.Require().NoError(e.Customers.Create(e.ctx, customer))
	return customer
}

// CreateMotorcycle stores a motorcycle owned by customer
func (e *TestEnvironment) CreateMotorcycle(customer *models.Customer, plate string) *models.Motorcycle {
	motorcycle := &models.Motorcycle{CustomerID: customer.ID, Plate: plate, Year: 2021}
	e.Require().NoError(e.Motorcycles.Create(e.ctx, motorcycle))
	return motorcycle
}

// CreateService stores an active catalog service
func (e *TestEnvironment) CreateService(name string, price float64) *models.Service {
	service := &models.Service{Name: name, Price: price, IsActive: true}
	e.Require().NoError(e.Services.Create(e.ctx, service))
	return service
}

// CreateBrand stores an active brand with the given models
func (e *TestEnvironment) CreateBrand(name string, modelNames ...string) *models.Brand {
	brand := &models.Brand{Name: name, IsActive: true}
	e.Require().NoError(e.Brands.CreateWithModels(e.ctx, brand, modelNames))
	return brand
}

// CreateRepairJob stores a job in status for motorcycle, bypassing the workflow.
// Closed statuses get CompletedAt set to the environment time.
func (e *TestEnvironment) CreateRepairJob(motorcycle *models.Motorcycle, status models.RepairJobStatus, services ...models.Service) *models.RepairJob {
	job := &models.RepairJob{
		MotorcycleID: motorcycle.ID,
		Status:       status,
		Services:     services,
	}
	for _, service := range services {
		job.TotalCost += service.Price
	}
	if status == models.RepairJobStatusCompleted || status == models.RepairJobStatusCancelled {
		completedAt := e.now
		job.CompletedAt = &completedAt
	}
	e.Require().NoError(e.RepairJobs.Create(e.ctx, job))
	return job
}

// CompleteRepairJob marks job COMPLETED at completedAt with the given cost
func (e *TestEnvironment) CompleteRepairJob(job *models.RepairJob, completedAt time.Time, cost float64) {
	job.Status = models.RepairJobStatusCompleted
	job.CompletedAt = &completedAt
	job.TotalCost = cost
	e.Require().NoError(e.RepairJobs.Save(e.ctx, job))
}
