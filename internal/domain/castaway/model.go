package castaway

import "fmt"

type Status string

const (
	StatusActive     Status = "active"
	StatusEliminated Status = "eliminated"
)

// Castaway is a contestant of one show-season. Status is maintained by an
// external collaborator.
type Castaway struct {
	ID       string
	SeasonID string
	Name     string
	Status   Status
}

func (c Castaway) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("castaway id is required")
	}
	if c.SeasonID == "" {
		return fmt.Errorf("castaway season id is required")
	}
	if c.Name == "" {
		return fmt.Errorf("castaway name is required")
	}
	switch c.Status {
	case StatusActive, StatusEliminated:
	default:
		return fmt.Errorf("invalid castaway status %q", c.Status)
	}

	return nil
}
