package commands

import (
	"fmt"
	"slices"
	"strings"
	"sync"
)

// Help headings, in listing order.
const (
	SectionTasks    = "Tasks"
	SectionCalendar = "Calendar"
	SectionLists    = "Lists"
	SectionData     = "Data"
	SectionOther    = "Other"
)

var sectionOrder = []string{SectionTasks, SectionCalendar, SectionLists, SectionData, SectionOther}

// Sectioned is implemented by commands listed under a help heading.
// Commands without it are listed under SectionOther.
type Sectioned interface {
	Section() string
}

// Section is one heading of the help listing.
type Section struct {
	Title    string
	Commands []Command
}

// Registry maps command names and aliases to commands.
type Registry struct {
	mu     sync.RWMutex
	byName map[string]Command
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]Command)}
}

// Register adds c under its name and aliases. Names must be unique and may
// not start with a dash, which the dispatcher reads as a misplaced flag.
func (r *Registry) Register(c Command) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	names := append([]string{c.Name()}, c.Aliases()...)
	for _, name := range names {
		if name == "" || strings.HasPrefix(name, "-") {
			return fmt.Errorf("invalid command name: %q", name)
		}
		if prev, exists := r.byName[name]; exists {
			return fmt.Errorf("command name %s already used by %s", name, prev.Name())
		}
	}
	if s, ok := c.(Sectioned); ok && !slices.Contains(sectionOrder, s.Section()) {
		return fmt.Errorf("command %s: unknown section %q", c.Name(), s.Section())
	}

	for _, name := range names {
		r.byName[name] = c
	}
	return nil
}

// Find looks up a command by name or alias.
func (r *Registry) Find(name string) (Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cmd, ok := r.byName[name]
	return cmd, ok
}

// All returns every command once, sorted by name.
func (r *Registry) All() []Command {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var cmds []Command
	for name, cmd := range r.byName {
		if name == cmd.Name() {
			cmds = append(cmds, cmd)
		}
	}
	slices.SortFunc(cmds, func(a, b Command) int { return strings.Compare(a.Name(), b.Name()) })
	return cmds
}

// Sections returns All grouped by help heading. Empty headings are left out.
func (r *Registry) Sections() []Section {
	grouped := make(map[string][]Command)
	for _, cmd := range r.All() {
		title := SectionOther
		if s, ok := cmd.(Sectioned); ok {
			title = s.Section()
		}
		grouped[title] = append(grouped[title], cmd)
	}

	var sections []Section
	for _, title := range sectionOrder {
		if cmds := grouped[title]; len(cmds) > 0 {
			sections = append(sections, Section{Title: title, Commands: cmds})
		}
	}
	return sections
}

// DefaultRegistry holds the commands the binary dispatches to.
var DefaultRegistry = NewRegistry()

// Register adds c to DefaultRegistry and panics on a conflict.
func Register(c Command) {
	if err := DefaultRegistry.Register(c); err != nil {
		panic(err)
	}
}
