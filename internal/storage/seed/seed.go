// Package seed reads the YAML roster the dev server loads at startup.
//
// File format:
//
//	students:
//	  - id: "1"
//	    name: Aarav Sharma
//	    rollNumber: CS2201
//	    accommodation: Hosteller
package seed

import (
	"errors"
	"fmt"
	"os"

	"github.com/aanand-mishra/student-contacts/internal/types"
	"github.com/aanand-mishra/student-contacts/internal/utils/response"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// File is the top-level seed document.
type File struct {
	Students []types.StudentRecord `yaml:"students" validate:"unique=ID,unique=RollNumber,dive"`
}

// Load parses and validates the seed file at path.
func Load(path string) ([]types.StudentRecord, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("seed.Load: %w", err)
	}
	return Parse(raw)
}

// Parse validates a seed document held in memory.
func Parse(raw []byte) ([]types.StudentRecord, error) {
	var f File
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("seed.Parse: decode: %w", err)
	}

	if err := validator.New().Struct(f); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return nil, fmt.Errorf("seed.Parse: %s", response.DescribeValidation(verrs))
		}
		return nil, fmt.Errorf("seed.Parse: %w", err)
	}

	if f.Students == nil {
		f.Students = []types.StudentRecord{}
	}
	return f.Students, nil
}
