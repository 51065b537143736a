package domain

// CreditRole is the function a person performed on an ad.
type CreditRole string

const (
	CreditRoleCreativeDirector CreditRole = "CD"
	CreditRoleCopywriter       CreditRole = "CW"
	CreditRoleArtDirector      CreditRole = "AD"
	CreditRoleDirector         CreditRole = "DIR"
	CreditRoleCinematographer  CreditRole = "DOP"
	CreditRoleEditor           CreditRole = "EDIT"
	CreditRoleColorist         CreditRole = "CLR"
	CreditRoleProducer         CreditRole = "PM"
	CreditRoleVFX              CreditRole = "VFX"
)

var creditRoleLabels = map[CreditRole]string{
	CreditRoleCreativeDirector: "Creative Director",
	CreditRoleCopywriter:       "Copywriter",
	CreditRoleArtDirector:      "Art Director",
	CreditRoleDirector:         "Director",
	CreditRoleCinematographer:  "Director of Photography",
	CreditRoleEditor:           "Editor",
	CreditRoleColorist:         "Colourist",
	CreditRoleProducer:         "Producer/PM",
	CreditRoleVFX:              "VFX Lead",
}

func (r CreditRole) String() string { return string(r) }

func (r CreditRole) IsValid() bool {
	_, ok := creditRoleLabels[r]
	return ok
}

// Label returns the human-readable role name, or the code itself for unknown roles.
func (r CreditRole) Label() string {
	if l, ok := creditRoleLabels[r]; ok {
		return l
	}
	return string(r)
}

// ImportOutcome is what happened to a single imported row.
type ImportOutcome string

const (
	ImportOutcomeCreated ImportOutcome = "CREATED"
	ImportOutcomeUpdated ImportOutcome = "UPDATED"
	ImportOutcomeSkipped ImportOutcome = "SKIPPED"
)

func (o ImportOutcome) String() string { return string(o) }

func (o ImportOutcome) IsValid() bool {
	switch o {
	case ImportOutcomeCreated, ImportOutcomeUpdated, ImportOutcomeSkipped:
		return true
	}
	return false
}
