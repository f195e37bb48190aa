package repos

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/motorepair/admin/internal/db"
	"github.com/motorepair/admin/internal/db/models"
)

// DBRepositoryTestSuite provides a base test suite for repository tests
type DBRepositoryTestSuite struct {
	suite.Suite
	db             *gorm.DB
	ctx            context.Context
	brandRepo      *BrandRepository
	modelRepo      *MotorcycleModelRepository
	serviceRepo    *ServiceRepository
	customerRepo   *CustomerRepository
	motorcycleRepo *MotorcycleRepository
	jobRepo        *RepairJobRepository
}

func (s *DBRepositoryTestSuite) SetupTest() {
	// Every test gets its own in-memory database
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	database, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(s.T(), err, "Failed to create in-memory database")

	err = db.Migrate(database)
	require.NoError(s.T(), err, "Failed to run database migrations")

	s.db = database
	s.brandRepo = NewBrandRepository(s.db)
	s.modelRepo = NewMotorcycleModelRepository(s.db)
	s.serviceRepo = NewServiceRepository(s.db)
	s.customerRepo = NewCustomerRepository(s.db)
	s.motorcycleRepo = NewMotorcycleRepository(s.db)
	s.jobRepo = NewRepairJobRepository(s.db)
	s.ctx = context.Background()
}

func (s *DBRepositoryTestSuite) TearDownTest() {
	sqlDB, err := s.db.DB()
	if err == nil && sqlDB != nil {
		_ = sqlDB.Close()
	}
}

// Helper methods for creating test data

func (s *DBRepositoryTestSuite) createTestCustomer(name string) *models.Customer {
	customer := &models.Customer{Name: name, Email: "owner@example.com"}
	s.Require().NoError(s.customerRepo.Create(s.ctx, customer))
	return customer
}

func (s *DBRepositoryTestSuite) createTestMotorcycle(customer *models.Customer, plate string) *models.Motorcycle {
	motorcycle := &models.Motorcycle{CustomerID: customer.ID, Plate: plate, Year: 2020}
	s.Require().NoError(s.motorcycleRepo.Create(s.ctx, motorcycle))
	return motorcycle
}

func (s *DBRepositoryTestSuite) createTestService(name string, price float64) *models.Service {
	service := &models.Service{Name: name, Price: price, IsActive: true}
	s.Require().NoError(s.serviceRepo.Create(s.ctx, service))
	return service
}

func (s *DBRepositoryTestSuite) createTestJob(motorcycle *models.Motorcycle, status models.RepairJobStatus, services ...models.Service) *models.RepairJob {
	job := &models.RepairJob{
		MotorcycleID: motorcycle.ID,
		Status:       status,
		Services:     services,
	}
	for _, service := range services {
		job.TotalCost += service.Price
	}
	s.Require().NoError(s.jobRepo.Create(s.ctx, job))
	return job
}

func (s *DBRepositoryTestSuite) closeTestJob(job *models.RepairJob, status models.RepairJobStatus, at time.Time) {
	job.Status = status
	job.CompletedAt = &at
	s.Require().NoError(s.jobRepo.Save(s.ctx, job))
}

// TestDBRepository runs the test suite for the DBRepository to verify no panic
func TestDBRepository(t *testing.T) {
	suite.Run(t, new(DBRepositoryTestSuite))
}
