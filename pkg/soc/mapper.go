package soc

import (
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/coursepilot/coursepilot/advisor/catalog"
)

// mapCourses converts the feed payload into domain courses. Only lecture
// sections are kept; discussion/lab/quiz sections are enrollment appendages
// the advisor does not schedule.
func mapCourses(payload classesResponse, term catalog.TermCode) []*catalog.Course {
	courses := make([]*catalog.Course, 0, len(payload.OfferedCourses.Course))
	for _, wrapper := range payload.OfferedCourses.Course {
		data := wrapper.CourseData

		id := catalog.CourseID{
			Department: strings.ToUpper(strings.TrimSpace(data.Prefix)),
			Number:     strings.ToUpper(strings.TrimSpace(data.Number) + strings.TrimSpace(data.Sequence)),
		}
		if id.Department == "" || id.Number == "" {
			continue
		}

		course := &catalog.Course{
			ID:          id,
			Title:       strings.TrimSpace(data.Title),
			Description: strings.TrimSpace(data.Description),
			Units:       catalog.ParseUnits(data.Units),
		}

		if text := strings.TrimSpace(data.PrereqText); text != "" {
			prereq, err := catalog.ParsePrereq(text)
			if err != nil {
				log.Debug().Err(err).Str("course", id.String()).Str("text", text).Msg("unparseable prerequisite text")
			} else {
				course.Prereq = prereq
			}
		}

		for _, sec := range data.SectionData {
			if !strings.EqualFold(strings.TrimSpace(sec.Type), "Lecture") {
				continue
			}
			if mapped := mapSection(sec, course, term); mapped != nil {
				course.Sections = append(course.Sections, mapped)
			}
		}
		course.SortSections()

		courses = append(courses, course)
	}
	return courses
}

func mapSection(sec sectionDTO, course *catalog.Course, term catalog.TermCode) *catalog.Section {
	code := strings.TrimSpace(sec.ID)
	if code == "" {
		return nil
	}

	units := course.Units
	if u := catalog.ParseUnits(sec.Units); u.Load() > 0 {
		units = u
	}

	section := &catalog.Section{
		Code:       code,
		Course:     course.ID,
		Term:       term,
		Title:      firstNonEmpty(strings.TrimSpace(sec.Title), course.Title),
		Location:   strings.TrimSpace(sec.Location),
		SeatsTotal: atoiLoose(sec.SpacesAvailable),
		SeatsTaken: atoiLoose(sec.NumberRegistered),
		Units:      units,
	}

	// Multiple listed instructors collapse to the first, the instructor of
	// record.
	if len(sec.Instructor) > 0 {
		section.Instructor = catalog.Instructor{
			FirstName: strings.TrimSpace(sec.Instructor[0].FirstName),
			LastName:  strings.TrimSpace(sec.Instructor[0].LastName),
			BioURL:    strings.TrimSpace(sec.Instructor[0].BioURL),
		}
	}

	if slot, ok := mapSlot(sec); ok {
		section.Slots = append(section.Slots, slot)
	}
	return section
}

func mapSlot(sec sectionDTO) (catalog.TimeSlot, bool) {
	days := catalog.ParseDays(sec.Day)
	start, errStart := catalog.ParseClock(sec.StartTime)
	end, errEnd := catalog.ParseClock(sec.EndTime)
	if errStart != nil || errEnd != nil {
		// TBA meeting: keep the days if any, with no usable interval.
		if len(days) == 0 {
			return catalog.TimeSlot{}, false
		}
		return catalog.TimeSlot{Days: days}, true
	}
	return catalog.TimeSlot{Days: days, Start: start, End: end}, true
}

func mapDepartments(payload deptsResponse) []catalog.Department {
	var out []catalog.Department
	var walk func(depts []deptDTO)
	walk = func(depts []deptDTO) {
		for _, d := range depts {
			code := strings.ToUpper(strings.TrimSpace(d.Code))
			name := strings.TrimSpace(d.Name)
			if code != "" {
				out = append(out, catalog.Department{Code: code, Name: name})
			}
			walk(d.Department)
		}
	}
	walk(payload.Department)
	return out
}

func atoiLoose(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
