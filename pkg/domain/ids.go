package domain

import (
	"github.com/google/uuid"

	dErrors "houscan/pkg/domain-errors"
)

// Typed IDs prevent a subject identifier from being passed where an
// announcement identifier is expected. Parsing rejects empty, malformed,
// and nil UUIDs at trust boundaries.

type SubjectID uuid.UUID

type AnnouncementID uuid.UUID

func ParseSubjectID(raw string) (SubjectID, error) {
	id, err := parseUUID(raw)
	if err != nil {
		return SubjectID{}, err
	}
	return SubjectID(id), nil
}

func ParseAnnouncementID(raw string) (AnnouncementID, error) {
	id, err := parseUUID(raw)
	if err != nil {
		return AnnouncementID{}, err
	}
	return AnnouncementID(id), nil
}

func parseUUID(raw string) (uuid.UUID, error) {
	if raw == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id must not be empty")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id must be a valid UUID")
	}
	if id == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id must not be the nil UUID")
	}
	return id, nil
}

func (id SubjectID) String() string { return uuid.UUID(id).String() }

func (id SubjectID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }

// MarshalText renders the id as its canonical UUID string in JSON.
func (id SubjectID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

func (id *SubjectID) UnmarshalText(text []byte) error {
	parsed, err := parseUUID(string(text))
	if err != nil {
		return err
	}
	*id = SubjectID(parsed)
	return nil
}

func (id AnnouncementID) String() string { return uuid.UUID(id).String() }

func (id AnnouncementID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }

// MarshalText renders the id as its canonical UUID string in JSON.
func (id AnnouncementID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

func (id *AnnouncementID) UnmarshalText(text []byte) error {
	parsed, err := parseUUID(string(text))
	if err != nil {
		return err
	}
	*id = AnnouncementID(parsed)
	return nil
}
