package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	contractx "github.com/coursepilot/coursepilot/advisor/contract"
)

const defaultCacheTTL = 15 * time.Minute

// Source is the upstream schedule-of-classes feed. Implementations must
// bound every call with a timeout and report transport failures as
// contract.ErrSourceUnavailable.
type Source interface {
	Department(ctx context.Context, dept string, term TermCode) ([]*Course, error)
	Departments(ctx context.Context, term TermCode) ([]Department, error)
}

// CacheOption customizes a Cache.
type CacheOption func(*Cache)

func WithTTL(ttl time.Duration) CacheOption {
	return func(c *Cache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithClock overrides the cache's time source.
func WithClock(now func() time.Time) CacheOption {
	return func(c *Cache) {
		if now != nil {
			c.now = now
		}
	}
}

// Cache is a read-only, time-bounded store of department course data for one
// term. Entries younger than the TTL are served directly; expired entries
// trigger a live refresh with stale fallback, so a flaky upstream degrades
// freshness instead of availability. Refreshes for the same key are
// coalesced: one upstream call per key, contending callers share the result.
type Cache struct {
	source Source
	term   TermCode
	ttl    time.Duration
	now    func() time.Time

	group singleflight.Group

	mu    sync.RWMutex
	depts map[string]*deptEntry
	dir   *dirEntry
}

type deptEntry struct {
	courses   []*Course
	byNumber  map[string]*Course
	byCode    map[string]*Section
	fetchedAt time.Time
}

type dirEntry struct {
	departments []Department
	byToken     map[string]string // normalized code or name -> code
	fetchedAt   time.Time
}

func NewCache(source Source, term TermCode, opts ...CacheOption) (*Cache, error) {
	if source == nil {
		return nil, errors.New("catalog source is required")
	}
	if term == "" {
		return nil, errors.New("term is required")
	}

	c := &Cache{
		source: source,
		term:   term,
		ttl:    defaultCacheTTL,
		now:    time.Now,
		depts:  make(map[string]*deptEntry),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c, nil
}

func (c *Cache) Term() TermCode {
	return c.term
}

// Courses returns every course offered by a department. The second return
// is true when the value is served past its TTL because a refresh failed.
func (c *Cache) Courses(ctx context.Context, dept string) ([]*Course, bool, error) {
	code, stale, err := c.ResolveDept(ctx, dept)
	if err != nil {
		return nil, false, err
	}

	entry, entryStale, err := c.departmentEntry(ctx, code)
	if err != nil {
		return nil, false, err
	}
	return entry.courses, stale || entryStale, nil
}

// Course returns one course by identity, fetching its department if needed.
func (c *Cache) Course(ctx context.Context, id CourseID) (*Course, bool, error) {
	code, stale, err := c.ResolveDept(ctx, id.Department)
	if err != nil {
		return nil, false, err
	}

	entry, entryStale, err := c.departmentEntry(ctx, code)
	if err != nil {
		return nil, false, err
	}

	course, ok := entry.byNumber[strings.ToUpper(id.Number)]
	if !ok {
		return nil, false, fmt.Errorf("%w: %s %s in term %s", contractx.ErrCourseNotFound, code, id.Number, c.term)
	}
	return course, stale || entryStale, nil
}

// Sections returns the offered sections of a course, sorted by section code.
func (c *Cache) Sections(ctx context.Context, id CourseID) ([]*Section, bool, error) {
	course, stale, err := c.Course(ctx, id)
	if err != nil {
		return nil, false, err
	}
	return course.Sections, stale, nil
}

// SectionByCode looks a section up across every cached department. It never
// fetches: a section code is only resolvable once its department has been
// cached, which mirrors how codes reach the caller in the first place.
func (c *Cache) SectionByCode(code string) (*Section, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, entry := range c.depts {
		if s, ok := entry.byCode[code]; ok {
			return s, true
		}
	}
	return nil, false
}

// ResolveDept normalizes a department name or code ("Computer Science",
// "csci") to its canonical code using the upstream directory. When the
// directory itself is unreachable, a plain letters-only token is accepted as
// a code so lookups can still proceed degraded.
func (c *Cache) ResolveDept(ctx context.Context, raw string) (string, bool, error) {
	token := strings.ToUpper(strings.TrimSpace(raw))
	if token == "" {
		return "", false, fmt.Errorf("%w: empty department", contractx.ErrDepartmentNotFound)
	}

	dir, stale, err := c.directoryEntry(ctx)
	if err != nil {
		if errors.Is(err, contractx.ErrSourceUnavailable) && allLetters(token) {
			log.Debug().Str("department", token).Msg("directory unavailable, accepting token as code")
			return token, true, nil
		}
		return "", false, err
	}

	if code, ok := dir.byToken[token]; ok {
		return code, stale, nil
	}
	return "", false, fmt.Errorf("%w: %q", contractx.ErrDepartmentNotFound, raw)
}

// Departments returns the upstream department directory for the cache term.
func (c *Cache) Departments(ctx context.Context) ([]Department, bool, error) {
	dir, stale, err := c.directoryEntry(ctx)
	if err != nil {
		return nil, false, err
	}
	return dir.departments, stale, nil
}

func (c *Cache) departmentEntry(ctx context.Context, code string) (*deptEntry, bool, error) {
	c.mu.RLock()
	entry := c.depts[code]
	c.mu.RUnlock()

	if entry != nil && c.fresh(entry.fetchedAt) {
		return entry, false, nil
	}

	key := fmt.Sprintf("dept:%s:%s", c.term, code)
	fetched, err, _ := c.group.Do(key, func() (any, error) {
		// A flight that completed while this caller held its expired read
		// already refreshed the entry.
		c.mu.RLock()
		current := c.depts[code]
		c.mu.RUnlock()
		if current != nil && c.fresh(current.fetchedAt) {
			return current, nil
		}

		courses, err := c.source.Department(ctx, code, c.term)
		if err != nil {
			return nil, err
		}
		return c.storeDepartment(code, courses), nil
	})
	if err != nil {
		// Serve the expired entry rather than failing outright.
		if entry != nil {
			log.Warn().Err(err).Str("department", code).Msg("refresh failed, serving stale courses")
			return entry, true, nil
		}
		return nil, false, err
	}
	return fetched.(*deptEntry), false, nil
}

func (c *Cache) storeDepartment(code string, courses []*Course) *deptEntry {
	entry := &deptEntry{
		courses:   courses,
		byNumber:  make(map[string]*Course, len(courses)),
		byCode:    make(map[string]*Section),
		fetchedAt: c.now(),
	}
	for _, course := range courses {
		course.SortSections()
		entry.byNumber[strings.ToUpper(course.ID.Number)] = course
		for _, s := range course.Sections {
			entry.byCode[s.Code] = s
		}
	}

	c.mu.Lock()
	c.depts[code] = entry
	c.mu.Unlock()

	log.Debug().Str("department", code).Int("courses", len(courses)).Msg("cached department")
	return entry
}

func (c *Cache) directoryEntry(ctx context.Context) (*dirEntry, bool, error) {
	c.mu.RLock()
	dir := c.dir
	c.mu.RUnlock()

	if dir != nil && c.fresh(dir.fetchedAt) {
		return dir, false, nil
	}

	key := fmt.Sprintf("dir:%s", c.term)
	fetched, err, _ := c.group.Do(key, func() (any, error) {
		c.mu.RLock()
		current := c.dir
		c.mu.RUnlock()
		if current != nil && c.fresh(current.fetchedAt) {
			return current, nil
		}

		departments, err := c.source.Departments(ctx, c.term)
		if err != nil {
			return nil, err
		}
		return c.storeDirectory(departments), nil
	})
	if err != nil {
		if dir != nil {
			log.Warn().Err(err).Msg("refresh failed, serving stale department directory")
			return dir, true, nil
		}
		return nil, false, err
	}
	return fetched.(*dirEntry), false, nil
}

func (c *Cache) storeDirectory(departments []Department) *dirEntry {
	dir := &dirEntry{
		departments: departments,
		byToken:     make(map[string]string, len(departments)*2),
		fetchedAt:   c.now(),
	}
	for _, d := range departments {
		code := strings.ToUpper(strings.TrimSpace(d.Code))
		dir.byToken[code] = code
		dir.byToken[strings.ToUpper(strings.TrimSpace(d.Name))] = code
	}

	c.mu.Lock()
	c.dir = dir
	c.mu.Unlock()
	return dir
}

func (c *Cache) fresh(fetchedAt time.Time) bool {
	return c.now().Sub(fetchedAt) < c.ttl
}

func allLetters(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 'A' || s[i] > 'Z' {
			return false
		}
	}
	return s != ""
}
