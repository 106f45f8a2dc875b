package magmavk

import (
	"encoding/json"
	"fmt"
	"os"
)

// Usage is a named property bag configuring one core concern. The layout
// corresponds to JSON object notation so configuration files stay flat:
// each bag keeps its properties split by type, and bags may chain through
// Linked for grouped settings.
type Usage struct {
	Name        string             `json:"name"`
	StringProps map[string]string  `json:"strings,omitempty"`
	IntProps    map[string]int     `json:"ints,omitempty"`
	BoolProps   map[string]bool    `json:"bools,omitempty"`
	FloatProps  map[string]float32 `json:"floats,omitempty"`
	Linked      *Usage             `json:"linked,omitempty"`
}

func NewUsage(name string) *Usage {
	return &Usage{
		Name:        name,
		StringProps: make(map[string]string),
		IntProps:    make(map[string]int),
		BoolProps:   make(map[string]bool),
		FloatProps:  make(map[string]float32),
	}
}

// LoadUsages parses a JSON file holding a map of usage names to bags.
func LoadUsages(path string) (map[string]*Usage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("usage config %q: %w", path, err)
	}
	usages := make(map[string]*Usage)
	if err := json.Unmarshal(data, &usages); err != nil {
		return nil, fmt.Errorf("usage config %q: %w", path, err)
	}
	for name, usage := range usages {
		if usage.Name == "" {
			usage.Name = name
		}
	}
	return usages, nil
}

// String returns the string property or def when unset.
func (u *Usage) String(key, def string) string {
	if v, ok := u.StringProps[key]; ok {
		return v
	}
	return def
}

// Int returns the integer property or def when unset.
func (u *Usage) Int(key string, def int) int {
	if v, ok := u.IntProps[key]; ok {
		return v
	}
	return def
}

// Bool returns the boolean property or def when unset.
func (u *Usage) Bool(key string, def bool) bool {
	if v, ok := u.BoolProps[key]; ok {
		return v
	}
	return def
}

// Float returns the float property or def when unset.
func (u *Usage) Float(key string, def float32) float32 {
	if v, ok := u.FloatProps[key]; ok {
		return v
	}
	return def
}

func (u *Usage) HasNext() bool {
	return u.Linked != nil
}

// GetLinkedUsage follows the chain one step.
func (u *Usage) GetLinkedUsage() (*Usage, error) {
	if !u.HasNext() {
		return nil, fmt.Errorf("properties %s has no linked usage", u.Name)
	}
	return u.Linked, nil
}

// Print dumps the usage tree for debugging.
func (u *Usage) Print() {
	fmt.Print(u.StringProps)
	fmt.Print(u.BoolProps)
	fmt.Print(u.IntProps)
	fmt.Print(u.FloatProps)
	if u.HasNext() {
		u.Linked.Print()
	}
}
