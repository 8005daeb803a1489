package core

import (
	"context"
	"fmt"

	"staffing/pkg/domain"
)

// Sample records created by Seed.
var (
	SeedEmployer = domain.Employer{
		CompanyName: "Analiza",
		Location:    domain.Location{Address: "SS", City: "Escalon", State: "ESA"},
	}
	SeedEmployee = domain.Employee{
		EmployerID: "1",
		FirstName:  "Rob",
		LastName:   "Escalon",
		Location:   domain.Location{Address: "ESA", City: "SS", State: "ESA"},
	}
	SeedClient = domain.Client{
		EmployeeID: "1",
		ClientName: "Rob",
		Location:   domain.Location{Address: "ESA", City: "SS", State: "ESA"},
	}
)

// Seed inserts one sample record into each collection that is still empty.
// Collections that already hold data are left alone so restarts against a
// durable store do not duplicate the samples.
func (s *Service) Seed(ctx context.Context) error {
	employers, err := s.ListEmployers(ctx)
	if err != nil {
		return fmt.Errorf("seed employers: %w", err)
	}
	if len(employers) == 0 {
		if _, err := s.CreateEmployer(ctx, SeedEmployer); err != nil {
			return fmt.Errorf("seed employers: %w", err)
		}
	}
	employees, err := s.ListEmployees(ctx)
	if err != nil {
		return fmt.Errorf("seed employees: %w", err)
	}
	if len(employees) == 0 {
		if _, err := s.CreateEmployee(ctx, SeedEmployee); err != nil {
			return fmt.Errorf("seed employees: %w", err)
		}
	}
	clients, err := s.ListClients(ctx)
	if err != nil {
		return fmt.Errorf("seed clients: %w", err)
	}
	if len(clients) == 0 {
		if _, err := s.CreateClient(ctx, SeedClient); err != nil {
			return fmt.Errorf("seed clients: %w", err)
		}
	}
	s.logger.Info("seed complete", "employers", len(employers) == 0, "employees", len(employees) == 0, "clients", len(clients) == 0)
	return nil
}
