// Package samplegen writes synthetic players and constraints CSV files that
// the sorting backend accepts, for demos and manual testing.
package samplegen

import (
	"encoding/csv"
	"io"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/aalvaropc/teamsort/internal/domain"
)

// DefaultCount matches the size of the backend's reference data set.
const DefaultCount = 500

var (
	PlayersHeader     = []string{"Last Name", "First Name", "Gender", "Birthday", "Skill Level", "Preferred Practice Location", "School", "Parent HC", "Parent AC"}
	ConstraintsHeader = []string{"Age Group", "Max Players"}
)

var (
	lastNames  = []string{"Smith", "Johnson", "Williams", "Brown", "Jones", "Garcia", "Miller", "Davis", "Rodriguez", "Martinez", "Hernandez", "Lopez", "Gonzalez", "Wilson", "Anderson", "Thomas", "Taylor", "Moore", "Jackson", "Martin"}
	firstNames = []string{"James", "John", "Robert", "Michael", "William", "David", "Richard", "Joseph", "Thomas", "Charles", "Mary", "Patricia", "Jennifer", "Linda", "Elizabeth", "Barbara", "Margaret", "Susan", "Dorothy", "Lisa"}
	genders    = []string{"M", "F"}
	skills     = []string{"Beginner", "Average", "Very Good", "Advanced"}
	locations  = []weighted{
		{"Far East", 1},
		{"West 288", 4},
		{"Silverlake/East 288", 4},
		{"Blue Ridge Soccer Park (South Houston)", 1},
		{"Hwy 6 South", 1},
	}
	schools  = []string{"Oak Elementary", "Maple Middle School", "Pine High School", "Cedar Academy", "Birch School", "Willow Elementary", "Elm Middle School", "Spruce High", "Aspen Charter School", "Redwood Preparatory", "Sycamore Elementary", "Chestnut Middle School", "Magnolia High", "Poplar Academy", "Cypress School"}
	parentYN = []weighted{{"Y", 1}, {"N", 5}}
)

// AgeGroup is one row of the constraints file.
type AgeGroup struct {
	Name       string
	MaxPlayers int
}

// DefaultAgeGroups lists the age groups the backend sorts into.
var DefaultAgeGroups = []AgeGroup{
	{"u-5", 6},
	{"u-6", 6},
	{"u-8", 8},
	{"u-10", 9},
	{"u-12", 11},
	{"u-14", 14},
	{"u-16", 16},
	{"u-18", 18},
}

const (
	minAge = 4
	maxAge = 17
)

type weighted struct {
	value  string
	weight int
}

type Player struct {
	LastName  string
	FirstName string
	Gender    string
	Birthday  time.Time
	Skill     string
	Location  string
	School    string
	ParentHC  string
	ParentAC  string
}

func (p Player) record() []string {
	return []string{
		p.LastName,
		p.FirstName,
		p.Gender,
		p.Birthday.Format(time.DateOnly),
		p.Skill,
		p.Location,
		p.School,
		p.ParentHC,
		p.ParentAC,
	}
}

type Generator struct {
	rng *rand.Rand
	now func() time.Time
}

type Option func(*Generator)

// WithNow fixes the reference date used to derive birthdays.
func WithNow(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

// New returns a generator whose output is fully determined by seed and the clock.
func New(seed uint64, opts ...Option) *Generator {
	g := &Generator{
		rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Generator) Players(n int) []Player {
	if n < 0 {
		n = 0
	}
	out := make([]Player, 0, n)
	for range n {
		out = append(out, Player{
			LastName:  pick(g.rng, lastNames),
			FirstName: pick(g.rng, firstNames),
			Gender:    pick(g.rng, genders),
			Birthday:  g.birthday(),
			Skill:     pick(g.rng, skills),
			Location:  pickWeighted(g.rng, locations),
			School:    pick(g.rng, schools),
			ParentHC:  pickWeighted(g.rng, parentYN),
			ParentAC:  pickWeighted(g.rng, parentYN),
		})
	}
	return out
}

func (g *Generator) birthday() time.Time {
	now := g.now().UTC()
	latest := now.AddDate(0, 0, -minAge*365)
	earliest := now.AddDate(0, 0, -maxAge*365)
	days := int(latest.Sub(earliest).Hours() / 24)
	d := earliest.AddDate(0, 0, g.rng.IntN(days+1))
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
}

// WritePlayers writes a header plus n generated players as CSV.
func (g *Generator) WritePlayers(w io.Writer, n int) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(PlayersHeader); err != nil {
		return err
	}
	for _, p := range g.Players(n) {
		if err := cw.Write(p.record()); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteConstraints writes the age group table as CSV.
func WriteConstraints(w io.Writer, groups []AgeGroup) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ConstraintsHeader); err != nil {
		return err
	}
	for _, ag := range groups {
		if err := cw.Write([]string{ag.Name, strconv.Itoa(ag.MaxPlayers)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteFiles creates both files. Empty paths are skipped.
func (g *Generator) WriteFiles(playersPath, constraintsPath string, n int) error {
	if playersPath != "" {
		if err := writeFile(playersPath, func(w io.Writer) error { return g.WritePlayers(w, n) }); err != nil {
			return err
		}
	}
	if constraintsPath != "" {
		if err := writeFile(constraintsPath, func(w io.Writer) error { return WriteConstraints(w, DefaultAgeGroups) }); err != nil {
			return err
		}
	}
	return nil
}

func writeFile(path string, fill func(io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return &domain.OpError{Op: "samplegen.mkdir", Kind: domain.KindExecution, Path: path, Err: err}
	}

	f, err := os.CreateTemp(filepath.Dir(path), ".sample-*")
	if err != nil {
		return &domain.OpError{Op: "samplegen.create", Kind: domain.KindExecution, Path: path, Err: err}
	}
	tmp := f.Name()

	if err := fill(f); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return &domain.OpError{Op: "samplegen.write", Kind: domain.KindExecution, Path: path, Err: err}
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return &domain.OpError{Op: "samplegen.write", Kind: domain.KindExecution, Path: path, Err: err}
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return &domain.OpError{Op: "samplegen.rename", Kind: domain.KindExecution, Path: path, Err: err}
	}
	return nil
}

func pick(r *rand.Rand, xs []string) string {
	return xs[r.IntN(len(xs))]
}

func pickWeighted(r *rand.Rand, xs []weighted) string {
	total := 0
	for _, x := range xs {
		total += x.weight
	}
	n := r.IntN(total)
	for _, x := range xs {
		if n < x.weight {
			return x.value
		}
		n -= x.weight
	}
	return xs[len(xs)-1].value
}
