package repos

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/motorepair/admin/internal/db/models"
)

type RepairJobRepositoryTestSuite struct {
	DBRepositoryTestSuite
}

func TestRepairJobRepository(t *testing.T) {
	suite.Run(t, new(RepairJobRepositoryTestSuite))
}

func (s *RepairJobRepositoryTestSuite) TestCreateAndGetByID() {
	customer := s.createTestCustomer("Ana Torres")
	motorcycle := s.createTestMotorcycle(customer, "ABC123")
	oil := s.createTestService("Oil change", 50000)
	brakes := s.createTestService("Brake pads", 30000)

	job := s.createTestJob(motorcycle, models.RepairJobStatusPending, *oil, *brakes)
	s.NotEmpty(job.ID)

	found, err := s.jobRepo.GetByID(s.ctx, job.ID)
	s.Require().NoError(err)
	s.Equal(models.RepairJobStatusPending, found.Status)
	s.Equal(80000.0, found.TotalCost)
	s.Require().Len(found.Services, 2)
	s.Equal("Brake pads", found.Services[0].Name)
	s.Require().NotNil(found.Motorcycle)
	s.Require().NotNil(found.Motorcycle.Customer)
	s.Equal("Ana Torres", found.Motorcycle.Customer.Name)

	_, err = s.jobRepo.GetByID(s.ctx, "missing")
	s.ErrorIs(err, gorm.ErrRecordNotFound)
}

func (s *RepairJobRepositoryTestSuite) TestSaveKeepsServices() {
	customer := s.createTestCustomer("Ana Torres")
	motorcycle := s.createTestMotorcycle(customer, "ABC123")
	oil := s.createTestService("Oil change", 50000)
	job := s.createTestJob(motorcycle, models.RepairJobStatusPending, *oil)

	notes := "customer waits"
	job.Notes = &notes
	job.Status = models.RepairJobStatusInRepair
	s.Require().NoError(s.jobRepo.Save(s.ctx, job))

	found, err := s.jobRepo.GetByID(s.ctx, job.ID)
	s.Require().NoError(err)
	s.Equal(models.RepairJobStatusInRepair, found.Status)
	s.Equal("customer waits", *found.Notes)
	s.Len(found.Services, 1)
}

func (s *RepairJobRepositoryTestSuite) TestDeleteClearsServiceLinks() {
	customer := s.createTestCustomer("Ana Torres")
	motorcycle := s.createTestMotorcycle(customer, "ABC123")
	oil := s.createTestService("Oil change", 50000)
	job := s.createTestJob(motorcycle, models.RepairJobStatusPending, *oil)

	count, err := s.serviceRepo.CountJobs(s.ctx, oil.ID)
	s.Require().NoError(err)
	s.Equal(int64(1), count)

	s.Require().NoError(s.jobRepo.Delete(s.ctx, job))

	_, err = s.jobRepo.GetByID(s.ctx, job.ID)
	s.ErrorIs(err, gorm.ErrRecordNotFound)
	count, err = s.serviceRepo.CountJobs(s.ctx, oil.ID)
	s.Require().NoError(err)
	s.Zero(count)

	_, err = s.serviceRepo.GetByID(s.ctx, oil.ID)
	s.NoError(err, "the catalog service itself must survive")

	s.ErrorIs(s.jobRepo.Delete(s.ctx, job), gorm.ErrRecordNotFound)
}

func (s *RepairJobRepositoryTestSuite) TestListActive() {
	customer := s.createTestCustomer("Ana Torres")
	first := s.createTestMotorcycle(customer, "ABC123")
	second := s.createTestMotorcycle(customer, "XYZ987")

	pending := s.createTestJob(first, models.RepairJobStatusPending)
	inRepair := s.createTestJob(second, models.RepairJobStatusInRepair)
	waiting := s.createTestJob(first, models.RepairJobStatusWaitingForParts)
	completed := s.createTestJob(first, models.RepairJobStatusPending)
	s.closeTestJob(completed, models.RepairJobStatusCompleted, time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC))
	cancelled := s.createTestJob(second, models.RepairJobStatusPending)
	s.closeTestJob(cancelled, models.RepairJobStatusCancelled, time.Date(2024, 5, 3, 0, 0, 0, 0, time.UTC))

	jobs, total, err := s.jobRepo.ListActive(s.ctx, models.RepairJobFilter{}, nil)
	s.Require().NoError(err)
	s.Equal(int64(3), total)
	s.ElementsMatch([]string{pending.ID, inRepair.ID, waiting.ID}, jobIDs(jobs))

	status := models.RepairJobStatusCompleted
	jobs, total, err = s.jobRepo.ListActive(s.ctx, models.RepairJobFilter{Status: &status}, nil)
	s.Require().NoError(err)
	s.Equal(int64(1), total)
	s.Equal([]string{completed.ID}, jobIDs(jobs))

	jobs, total, err = s.jobRepo.ListActive(s.ctx, models.RepairJobFilter{MotorcycleID: first.ID}, nil)
	s.Require().NoError(err)
	s.Equal(int64(2), total)
	s.ElementsMatch([]string{pending.ID, waiting.ID}, jobIDs(jobs))

	jobs, total, err = s.jobRepo.ListActive(s.ctx, models.RepairJobFilter{}, &models.ListOptions{Limit: 2})
	s.Require().NoError(err)
	s.Equal(int64(3), total)
	s.Len(jobs, 2)
}

func (s *RepairJobRepositoryTestSuite) TestListHistory() {
	ana := s.createTestCustomer("Ana Torres")
	luis := s.createTestCustomer("Luis Pérez")
	anaBike := s.createTestMotorcycle(ana, "ABC123")
	luisBike := s.createTestMotorcycle(luis, "XYZ987")

	early := s.createTestJob(anaBike, models.RepairJobStatusPending)
	s.closeTestJob(early, models.RepairJobStatusCompleted, time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC))
	middle := s.createTestJob(luisBike, models.RepairJobStatusPending)
	s.closeTestJob(middle, models.RepairJobStatusCancelled, time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC))
	late := s.createTestJob(anaBike, models.RepairJobStatusPending)
	s.closeTestJob(late, models.RepairJobStatusCompleted, time.Date(2024, 5, 20, 9, 0, 0, 0, time.UTC))
	s.createTestJob(anaBike, models.RepairJobStatusInRepair)

	jobs, total, err := s.jobRepo.ListHistory(s.ctx, models.RepairJobHistoryFilter{}, nil)
	s.Require().NoError(err)
	s.Equal(int64(3), total)
	s.Equal([]string{late.ID, middle.ID, early.ID}, jobIDs(jobs))
	s.Require().NotNil(jobs[0].Motorcycle)
	s.Equal("ABC123", jobs[0].Motorcycle.Plate)

	jobs, _, err = s.jobRepo.ListHistory(s.ctx, models.RepairJobHistoryFilter{Order: models.SortAsc}, nil)
	s.Require().NoError(err)
	s.Equal([]string{early.ID, middle.ID, late.ID}, jobIDs(jobs))

	from := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	to := time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)
	jobs, total, err = s.jobRepo.ListHistory(s.ctx, models.RepairJobHistoryFilter{From: &from, To: &to}, nil)
	s.Require().NoError(err)
	s.Equal(int64(2), total, "range bounds are inclusive")
	s.Equal([]string{middle.ID, early.ID}, jobIDs(jobs))

	jobs, total, err = s.jobRepo.ListHistory(s.ctx, models.RepairJobHistoryFilter{Search: "LUIS"}, nil)
	s.Require().NoError(err)
	s.Equal(int64(1), total)
	s.Equal([]string{middle.ID}, jobIDs(jobs))

	jobs, total, err = s.jobRepo.ListHistory(s.ctx, models.RepairJobHistoryFilter{Search: "abc"}, nil)
	s.Require().NoError(err)
	s.Equal(int64(2), total)
	s.Equal([]string{late.ID, early.ID}, jobIDs(jobs))

	for _, wildcard := range []string{"%", "_", "a%c", `\`} {
		_, total, err = s.jobRepo.ListHistory(s.ctx, models.RepairJobHistoryFilter{Search: wildcard}, nil)
		s.Require().NoError(err)
		s.Equal(int64(0), total, "search %q must match literally", wildcard)
	}

	jobs, total, err = s.jobRepo.ListHistory(s.ctx, models.RepairJobHistoryFilter{}, &models.ListOptions{Limit: 1, Offset: 1})
	s.Require().NoError(err)
	s.Equal(int64(3), total)
	s.Equal([]string{middle.ID}, jobIDs(jobs))
}

func (s *RepairJobRepositoryTestSuite) TestCompletedTotalsBetween() {
	customer := s.createTestCustomer("Ana Torres")
	motorcycle := s.createTestMotorcycle(customer, "ABC123")
	oil := s.createTestService("Oil change", 50000)
	brakes := s.createTestService("Brake pads", 30000)

	inMay := s.createTestJob(motorcycle, models.RepairJobStatusPending, *oil)
	s.closeTestJob(inMay, models.RepairJobStatusCompleted, time.Date(2024, 5, 31, 23, 0, 0, 0, time.UTC))
	alsoMay := s.createTestJob(motorcycle, models.RepairJobStatusPending, *brakes)
	s.closeTestJob(alsoMay, models.RepairJobStatusCompleted, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC))
	inJune := s.createTestJob(motorcycle, models.RepairJobStatusPending, *brakes)
	s.closeTestJob(inJune, models.RepairJobStatusCompleted, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))
	cancelled := s.createTestJob(motorcycle, models.RepairJobStatusPending, *oil)
	s.closeTestJob(cancelled, models.RepairJobStatusCancelled, time.Date(2024, 5, 15, 0, 0, 0, 0, time.UTC))

	from := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC).Add(-time.Nanosecond)
	totals, err := s.jobRepo.CompletedTotalsBetween(s.ctx, from, to)
	s.Require().NoError(err)
	s.Equal(80000.0, totals.Revenue)
	s.Equal(int64(2), totals.Count)

	from = time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	totals, err = s.jobRepo.CompletedTotalsBetween(s.ctx, from, from.AddDate(0, 1, 0))
	s.Require().NoError(err)
	s.Zero(totals.Revenue)
	s.Zero(totals.Count)
}

func jobIDs(jobs []models.RepairJob) []string {
	ids := make([]string, 0, len(jobs))
	for _, job := range jobs {
		ids = append(ids, job.ID)
	}
	return ids
}
