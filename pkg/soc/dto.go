package soc

import (
	"bytes"
	"encoding/json"
)

// The feed encodes one-element collections as bare objects instead of
// arrays, so collection-valued fields decode through oneOrMany.

type classesResponse struct {
	OfferedCourses struct {
		Course oneOrMany[courseWrapper] `json:"course"`
	} `json:"OfferedCourses"`
}

type courseWrapper struct {
	CourseData courseDTO `json:"CourseData"`
}

type courseDTO struct {
	Prefix      string                `json:"prefix"`
	Number      string                `json:"number"`
	Sequence    string                `json:"sequence"`
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Units       string                `json:"units"`
	PrereqText  string                `json:"prereq_text"`
	SectionData oneOrMany[sectionDTO] `json:"SectionData"`
}

type sectionDTO struct {
	ID               string                   `json:"id"`
	Type             string                   `json:"type"`
	Title            string                   `json:"title"`
	Units            string                   `json:"units"`
	SpacesAvailable  string                   `json:"spaces_available"`
	NumberRegistered string                   `json:"number_registered"`
	Location         string                   `json:"location"`
	StartTime        string                   `json:"start_time"`
	EndTime          string                   `json:"end_time"`
	Day              string                   `json:"day"`
	Instructor       oneOrMany[instructorDTO] `json:"instructor"`
}

type instructorDTO struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	BioURL    string `json:"bio_url"`
}

type deptsResponse struct {
	Department oneOrMany[deptDTO] `json:"department"`
}

type deptDTO struct {
	Code       string             `json:"code"`
	Name       string             `json:"name"`
	Department oneOrMany[deptDTO] `json:"department"`
}

// oneOrMany decodes a JSON value that may be a single object, an array, or
// absent/null, into a slice. Empty collections also arrive as placeholder
// strings ("", "N/A"); any string value means no entries.
type oneOrMany[T any] []T

func (o *oneOrMany[T]) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || string(trimmed) == "null" || trimmed[0] == '"' {
		*o = nil
		return nil
	}

	var many []T
	if err := json.Unmarshal(trimmed, &many); err == nil {
		*o = many
		return nil
	}

	var one T
	if err := json.Unmarshal(trimmed, &one); err != nil {
		return err
	}
	*o = []T{one}
	return nil
}
