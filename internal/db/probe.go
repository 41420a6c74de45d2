package db

import (
	"log"

	"clanboard/internal/models"
)

// SchemaStatus is the typed result of the one-shot readiness probe. The
// engine consults Ready instead of sniffing "relation does not exist" error
// text out of individual query failures.
type SchemaStatus struct {
	Ready   bool
	Missing []string
}

// ProbeSchema checks once, at startup, that every table the forum engine
// queries has been provisioned. A negative result is sticky for the process:
// callers keep the status and suppress further queries.
func ProbeSchema() SchemaStatus {
	migrator := DB.Migrator()

	tables := []struct {
		name  string
		model interface{}
	}{
		{"users", &models.User{}},
		{"categories", &models.Category{}},
		{"posts", &models.Post{}},
		{"comments", &models.Comment{}},
		{"votes", &models.Vote{}},
		{"notifications", &models.Notification{}},
	}

	status := SchemaStatus{Ready: true}
	for _, t := range tables {
		if !migrator.HasTable(t.model) {
			status.Ready = false
			status.Missing = append(status.Missing, t.name)
		}
	}

	if !status.Ready {
		log.Printf("Schema probe: missing tables %v, forum queries disabled for this session", status.Missing)
	}
	return status
}
