// cmd/tools/catalog-tool/main.go
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"mergington-activities/pkg/catalog"
)

const defaultPath = "configs/activities.json"

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	if len(args) < 1 {
		help(out)
		return errors.New("missing command")
	}

	switch args[0] {
	case "init":
		fs := flag.NewFlagSet("init", flag.ContinueOnError)
		path := fs.String("path", defaultPath, "Path to catalog file")
		force := fs.Bool("force", false, "Overwrite an existing file")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		if err := initCatalog(*path, *force); err != nil {
			return err
		}
		fmt.Fprintf(out, "Wrote default catalog to %s\n", *path)

	case "add":
		fs := flag.NewFlagSet("add", flag.ContinueOnError)
		path := fs.String("path", defaultPath, "Path to catalog file")
		name := fs.String("name", "", "Activity name (e.g., Chess Club)")
		description := fs.String("description", "", "Description")
		schedule := fs.String("schedule", "", "Schedule (e.g., Fridays, 3:30 PM - 5:00 PM)")
		maxParticipants := fs.Int("max", 0, "Maximum participants")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		if *name == "" || *description == "" || *schedule == "" || *maxParticipants <= 0 {
			fs.Usage()
			return errors.New("name, description, schedule and a positive max are required for add")
		}
		err := addActivity(*path, catalog.Entry{
			Name:            *name,
			Description:     *description,
			Schedule:        *schedule,
			MaxParticipants: *maxParticipants,
			Participants:    []string{},
		})
		if err != nil {
			return fmt.Errorf("adding activity: %w", err)
		}
		fmt.Fprintf(out, "Added activity: %s\n", *name)

	case "update":
		fs := flag.NewFlagSet("update", flag.ContinueOnError)
		path := fs.String("path", defaultPath, "Path to catalog file")
		name := fs.String("name", "", "Activity name to update")
		field := fs.String("field", "", "Field to update (description, schedule, max_participants)")
		value := fs.String("value", "", "New value for the field")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		if *name == "" || *field == "" || *value == "" {
			fs.Usage()
			return errors.New("name, field and value are required for update")
		}
		if err := updateActivity(*path, *name, *field, *value); err != nil {
			return fmt.Errorf("updating activity: %w", err)
		}
		fmt.Fprintf(out, "Updated activity %s, field %s to %s\n", *name, *field, *value)

	case "validate":
		fs := flag.NewFlagSet("validate", flag.ContinueOnError)
		path := fs.String("path", defaultPath, "Path to catalog file")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		c, err := catalog.Load(*path)
		if err != nil {
			return fmt.Errorf("catalog validation failed: %w", err)
		}
		fmt.Fprintf(out, "Catalog validation passed (%d activities).\n", len(c.Activities))

	case "list":
		fs := flag.NewFlagSet("list", flag.ContinueOnError)
		path := fs.String("path", "", "Path to catalog file (default: built-in catalog)")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		c, err := catalog.LoadOrDefault(*path)
		if err != nil {
			return err
		}
		listActivities(out, c)

	case "help":
		help(out)

	default:
		help(out)
		return fmt.Errorf("unknown command %q", args[0])
	}
	return nil
}

func initCatalog(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists (use -force to overwrite)", path)
	}
	c, err := catalog.Default()
	if err != nil {
		return err
	}
	c.LastUpdated = time.Now().Format(time.RFC3339)
	return catalog.Save(path, c)
}

func addActivity(path string, entry catalog.Entry) error {
	c, err := catalog.Load(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to load catalog: %w", err)
		}
		c = &catalog.Catalog{Version: "1.0.0", Activities: []catalog.Entry{}}
	}

	if _, exists := c.Find(entry.Name); exists {
		return fmt.Errorf("activity %q already exists", entry.Name)
	}

	c.Activities = append(c.Activities, entry)
	c.LastUpdated = time.Now().Format(time.RFC3339)
	return catalog.Save(path, c)
}

func updateActivity(path, name, field, value string) error {
	c, err := catalog.Load(path)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	entry, ok := c.Find(name)
	if !ok {
		return fmt.Errorf("activity %q not found", name)
	}

	switch field {
	case "description":
		entry.Description = value
	case "schedule":
		entry.Schedule = value
	case "max_participants":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid max_participants value: %w", err)
		}
		entry.MaxParticipants = n
	default:
		return fmt.Errorf("unknown field: %s", field)
	}

	c.LastUpdated = time.Now().Format(time.RFC3339)
	return catalog.Save(path, c)
}

func listActivities(out io.Writer, c *catalog.Catalog) {
	fmt.Fprintf(out, "Catalog version %s (%d activities)\n", c.Version, len(c.Activities))
	for _, e := range c.Activities {
		fmt.Fprintf(out, "- %s [%d/%d] %s\n", e.Name, len(e.Participants), e.MaxParticipants, e.Schedule)
	}
}

func help(out io.Writer) {
	fmt.Fprintln(out, `Usage: catalog-tool <command> [options]

Commands:
  init      Write the built-in catalog to a file
  add       Add a new activity
  update    Update a field of an existing activity
  validate  Validate a catalog file
  list      Print the activities in a catalog`)
}
