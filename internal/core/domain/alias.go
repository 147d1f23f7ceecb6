package domain

import (
	"time"

	"github.com/google/uuid"
)

// AliasChampion is the single production alias name. Exactly one alias
// exists; at most one model version holds it at any instant.
const AliasChampion = "champion"

// ProductionAlias is the mutable binding from the champion alias to the
// currently serving model version. CurrentVersionID is nil before the
// first promotion. All mutation goes through the repository's
// compare-and-swap so concurrent promotions cannot overwrite each other.
type ProductionAlias struct {
	Name             string     `json:"alias_name"`
	CurrentVersionID *uuid.UUID `json:"current_version_id"`
	AssignedAt       time.Time  `json:"assigned_at"`
}
