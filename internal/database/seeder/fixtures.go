package seeder

import (
	"embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed fixtures/default.yaml
var defaultFixtures embed.FS

type Fixtures struct {
	Users         []UserFixture        `yaml:"users"`
	Opportunities []OpportunityFixture `yaml:"opportunities"`
}

type UserFixture struct {
	Email    string   `yaml:"email"`
	Password string   `yaml:"password"`
	Role     string   `yaml:"role"`
	FullName string   `yaml:"full_name"`
	Country  string   `yaml:"country"`
	Skills   []string `yaml:"skills"`
	Verified bool     `yaml:"verified"`
}

type OpportunityFixture struct {
	Host        string   `yaml:"host"`
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	District    string   `yaml:"district"`
	State       string   `yaml:"state"`
	Images      []string `yaml:"images"`
	Skills      []string `yaml:"skills"`
	MinWeeks    int      `yaml:"min_weeks"`
	MaxWeeks    int      `yaml:"max_weeks"`
	Rating      *float64 `yaml:"rating"`
	ReviewCount *int     `yaml:"review_count"`
	// AgeDays backdates created_at so listings have a stable recency order.
	AgeDays int `yaml:"age_days"`
}

// LoadFixtures reads fixtures from path, or the built-in set when path is
// empty.
func LoadFixtures(path string) (Fixtures, error) {
	var (
		b   []byte
		err error
	)
	if strings.TrimSpace(path) == "" {
		b, err = defaultFixtures.ReadFile("fixtures/default.yaml")
	} else {
		b, err = os.ReadFile(path)
	}
	if err != nil {
		return Fixtures{}, fmt.Errorf("read fixtures: %w", err)
	}
	return ParseFixtures(b)
}

func ParseFixtures(b []byte) (Fixtures, error) {
	var f Fixtures
	if err := yaml.Unmarshal(b, &f); err != nil {
		return Fixtures{}, fmt.Errorf("parse fixtures: %w", err)
	}
	if err := f.validate(); err != nil {
		return Fixtures{}, err
	}
	return f, nil
}

func (f Fixtures) validate() error {
	emails := make(map[string]struct{}, len(f.Users))
	for i, u := range f.Users {
		email := strings.ToLower(strings.TrimSpace(u.Email))
		if email == "" || u.Password == "" {
			return fmt.Errorf("users[%d]: email and password are required", i)
		}
		switch u.Role {
		case "volunteer", "host", "admin":
		default:
			return fmt.Errorf("users[%d]: unknown role %q", i, u.Role)
		}
		emails[email] = struct{}{}
	}
	for i, o := range f.Opportunities {
		if strings.TrimSpace(o.Title) == "" || strings.TrimSpace(o.State) == "" {
			return fmt.Errorf("opportunities[%d]: title and state are required", i)
		}
		if o.MinWeeks < 1 || o.MaxWeeks < o.MinWeeks {
			return fmt.Errorf("opportunities[%d]: invalid week range %d-%d", i, o.MinWeeks, o.MaxWeeks)
		}
		if _, ok := emails[strings.ToLower(strings.TrimSpace(o.Host))]; !ok {
			return fmt.Errorf("opportunities[%d]: host %q is not a fixture user", i, o.Host)
		}
	}
	return nil
}
