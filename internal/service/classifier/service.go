// Package classifier assigns a department to a new report. The upstream
// vision model reduces to a detected-issue label; here the label comes from
// keyword matching on the description, and the mapping below turns it into
// a department, creating the row lazily when a mapped name has no row yet.
package classifier

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"civicwatch/internal/repository"
)

type Service interface {
	// Classify returns the department for a report. It falls back to the
	// default department instead of failing; post creation never blocks on
	// classification.
	Classify(ctx context.Context, description string) (uuid.UUID, error)
}

type service struct {
	deptRepo          repository.DepartmentRepository
	defaultDepartment string
}

// issueDepartments maps detected issue keywords to department names.
var issueDepartments = []struct {
	keywords   []string
	department string
}{
	{[]string{"pothole", "road", "asphalt", "concrete"}, "Road Dept"},
	{[]string{"parking", "traffic", "signal", "sign"}, "Traffic Dept"},
	{[]string{"garbage", "litter", "trash", "waste"}, "Garbage Dept"},
	{[]string{"streetlight", "street light", "electric", "wire", "pole", "power"}, "Electricity Dept"},
	{[]string{"tree", "graffiti", "vandal", "flood", "pipe", "animal"}, "Public Works Dept"},
}

func NewService(deptRepo repository.DepartmentRepository, defaultDepartment string) Service {
	return &service{
		deptRepo:          deptRepo,
		defaultDepartment: defaultDepartment,
	}
}

func (s *service) Classify(ctx context.Context, description string) (uuid.UUID, error) {
	name := s.defaultDepartment
	lowered := strings.ToLower(description)

match:
	for _, entry := range issueDepartments {
		for _, keyword := range entry.keywords {
			if strings.Contains(lowered, keyword) {
				name = entry.department
				break match
			}
		}
	}

	dept, err := s.deptRepo.FindOrCreateByName(ctx, name)
	if err != nil {
		return uuid.Nil, err
	}
	return dept.ID, nil
}
