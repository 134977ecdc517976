package quiz

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// datasetFile is the on-disk layout of an email dataset.
type datasetFile struct {
	Emails []Email `yaml:"emails"`
}

// LoadEmails reads an email dataset from a YAML file of the form
//
//	emails:
//	  - id: 1
//	    from: security@example.com
//	    subject: ...
//	    body: |
//	      ...
//	    is_phishing: true
//	    explanation: ...
//	    red_flags: [...]
func LoadEmails(path string) ([]Email, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset: %w", err)
	}
	return ParseEmails(data)
}

// ParseEmails decodes and validates a YAML email dataset.
func ParseEmails(data []byte) ([]Email, error) {
	var file datasetFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse dataset: %w", err)
	}
	if err := ValidateEmails(file.Emails); err != nil {
		return nil, err
	}
	return file.Emails, nil
}

// ValidateEmails checks that a dataset is usable by a Game.
func ValidateEmails(emails []Email) error {
	if len(emails) == 0 {
		return ErrEmptyDataset
	}
	seen := make(map[int]bool, len(emails))
	for i, e := range emails {
		if seen[e.ID] {
			return fmt.Errorf("email %d: duplicate id %d", i, e.ID)
		}
		seen[e.ID] = true

		switch {
		case strings.TrimSpace(e.From) == "":
			return fmt.Errorf("email %d: from is required", e.ID)
		case strings.TrimSpace(e.Subject) == "":
			return fmt.Errorf("email %d: subject is required", e.ID)
		case strings.TrimSpace(e.Body) == "":
			return fmt.Errorf("email %d: body is required", e.ID)
		}
	}
	return nil
}
