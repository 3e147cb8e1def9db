package config

// Category represents a change category configuration
type Category struct {
	ID          string
	Name        string
	Description string
}

// Team represents an owning team configuration
type Team struct {
	ID   string
	Name string
}

// AssessmentConfig holds the category and team metadata that proposals
// may reference. Classification thresholds are fixed in the domain model
// and never appear here.
type AssessmentConfig struct {
	Categories []Category
	Teams      []Team
}

// CategoryByID returns the category definition for the given ID, or nil
func (c *AssessmentConfig) CategoryByID(id string) *Category {
	for i := range c.Categories {
		if c.Categories[i].ID == id {
			return &c.Categories[i]
		}
	}
	return nil
}

// TeamByID returns the team definition for the given ID, or nil
func (c *AssessmentConfig) TeamByID(id string) *Team {
	for i := range c.Teams {
		if c.Teams[i].ID == id {
			return &c.Teams[i]
		}
	}
	return nil
}

// HasCategory reports whether the config defines the given category ID.
// An empty config accepts nothing.
func (c *AssessmentConfig) HasCategory(id string) bool {
	return c.CategoryByID(id) != nil
}

// HasTeam reports whether the config defines the given team ID
func (c *AssessmentConfig) HasTeam(id string) bool {
	return c.TeamByID(id) != nil
}
