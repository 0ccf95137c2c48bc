package samplegen

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"
)

var refNow = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }

func TestPlayers_DeterministicForSeed(t *testing.T) {
	a := New(7, WithNow(refNow)).Players(25)
	b := New(7, WithNow(refNow)).Players(25)
	c := New(8, WithNow(refNow)).Players(25)

	if !slices.Equal(a, b) {
		t.Fatalf("expected same seed to produce same players")
	}
	if slices.Equal(a, c) {
		t.Fatalf("expected different seeds to differ")
	}
}

func TestPlayers_ValuesWithinDomain(t *testing.T) {
	now := refNow()
	for _, p := range New(1, WithNow(refNow)).Players(300) {
		if !slices.Contains(genders, p.Gender) {
			t.Fatalf("unexpected gender %q", p.Gender)
		}
		if !slices.Contains(skills, p.Skill) {
			t.Fatalf("unexpected skill %q", p.Skill)
		}
		if p.ParentHC != "Y" && p.ParentHC != "N" {
			t.Fatalf("unexpected parent HC %q", p.ParentHC)
		}
		age := now.Sub(p.Birthday).Hours() / 24 / 365
		if age < minAge-0.01 || age > maxAge+0.01 {
			t.Fatalf("birthday %s outside age range (age=%.2f)", p.Birthday.Format(time.DateOnly), age)
		}
	}
}

func TestPickWeighted_FavorsHeavierValues(t *testing.T) {
	g := New(42)
	counts := map[string]int{}
	for range 6000 {
		counts[pickWeighted(g.rng, parentYN)]++
	}
	if counts["N"] < 3*counts["Y"] {
		t.Fatalf("expected N to dominate 5:1, got %v", counts)
	}
}

func TestWritePlayers_CSVShape(t *testing.T) {
	var buf bytes.Buffer
	if err := New(3, WithNow(refNow)).WritePlayers(&buf, 10); err != nil {
		t.Fatalf("WritePlayers error: %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(rows) != 11 {
		t.Fatalf("expected header + 10 rows, got %d", len(rows))
	}
	if !slices.Equal(rows[0], PlayersHeader) {
		t.Fatalf("unexpected header %v", rows[0])
	}
	for _, r := range rows[1:] {
		if len(r) != len(PlayersHeader) {
			t.Fatalf("row has %d columns: %v", len(r), r)
		}
		if _, err := time.Parse(time.DateOnly, r[3]); err != nil {
			t.Fatalf("bad birthday %q: %v", r[3], err)
		}
	}
}

func TestWriteConstraints_DefaultGroups(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteConstraints(&buf, DefaultAgeGroups); err != nil {
		t.Fatalf("WriteConstraints error: %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(rows) != len(DefaultAgeGroups)+1 {
		t.Fatalf("unexpected row count %d", len(rows))
	}
	if rows[1][0] != "u-5" || rows[len(rows)-1][0] != "u-18" {
		t.Fatalf("unexpected groups: %v", rows)
	}
}

func TestWriteFiles_CreatesBoth(t *testing.T) {
	dir := t.TempDir()
	players := filepath.Join(dir, "data", "players.csv")
	constraints := filepath.Join(dir, "data", "constraints.csv")

	if err := New(1).WriteFiles(players, constraints, 5); err != nil {
		t.Fatalf("WriteFiles error: %v", err)
	}

	for _, p := range []string{players, constraints} {
		info, err := os.Stat(p)
		if err != nil {
			t.Fatalf("stat %s: %v", p, err)
		}
		if info.Size() == 0 {
			t.Fatalf("expected %s non-empty", p)
		}
	}

	entries, _ := os.ReadDir(filepath.Join(dir, "data"))
	if len(entries) != 2 {
		t.Fatalf("expected no temp files left, got %d entries", len(entries))
	}
}
