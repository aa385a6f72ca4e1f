package main

import (
	"regexp"
	"strings"
)

// referenceYear anchors age rendering; the roster stores birth years.
const referenceYear = 2025

// Verdict grades a numeric attribute guess. Note that higher/lower refer to
// the raw value: a "higher" birth year means a younger player, so clients
// flip the arrow when rendering age.
type Verdict string

const (
	VerdictExact  Verdict = "exact"
	VerdictNear   Verdict = "near"
	VerdictHigher Verdict = "higher"
	VerdictLower  Verdict = "lower"
)

const (
	birthYearTolerance = 3
	majorsTolerance    = 2
)

// PlayerAttributes is the tuple the roster stores per player. JSON keys match
// the scraped dataset.
type PlayerAttributes struct {
	Team      string `json:"team"`
	Country   string `json:"country"`
	Role      string `json:"role"`
	BirthYear int    `json:"birth_year"`
	Majors    int    `json:"majapp"`
	Link      string `json:"link,omitempty"`
}

// Comparison is the per-attribute breakdown of one guess against the hidden
// target.
type Comparison struct {
	Name           string  `json:"name"`
	Team           string  `json:"team"`
	TeamCorrect    bool    `json:"team_correct"`
	Country        string  `json:"country"`
	CountryCorrect bool    `json:"country_correct"`
	CountryNear    bool    `json:"country_near"`
	Region         string  `json:"region"`
	TargetRegion   string  `json:"target_region"`
	Role           string  `json:"role"`
	RoleCorrect    bool    `json:"role_correct"`
	BirthYear      Verdict `json:"birth_year"`
	GuessedAge     int     `json:"guessed_age"`
	TargetAge      int     `json:"target_age"`
	Majors         Verdict `json:"majapp"`
	GuessedMajors  int     `json:"guessed_majapp"`
	TargetMajors   int     `json:"target_majapp"`
}

var regions = map[string][]string{
	"Asia":          {"China", "Mongolia", "Indonesia", "Malaysia", "Turkey", "India", "Israel", "Jordan", "Uzbekistan"},
	"Oceania":       {"Australia", "New Zealand"},
	"Europe":        {"France", "Germany", "Sweden", "Denmark", "Poland", "Spain", "Italy", "Finland", "Norway", "Latvia", "Estonia", "Bosnia and Herzegovina", "Montenegro", "Serbia", "Bulgaria", "Czech Republic", "Switzerland", "Netherlands", "Slovakia", "Lithuania", "Romania", "United Kingdom", "Ukraine", "Belgium", "Hungary", "Portugal", "Kosovo"},
	"Africa":        {"South Africa"},
	"South America": {"Brazil", "Uruguay", "Argentina", "Chile", "Guatemala"},
	"North America": {"United States", "Canada"},
	"CIS":           {"Russia", "Kazakhstan", "Belarus"},
}

// countryRegions is the inverted lookup built once at startup.
var countryRegions = func() map[string]string {
	m := make(map[string]string)
	for region, countries := range regions {
		for _, country := range countries {
			m[strings.ToLower(country)] = region
		}
	}
	return m
}()

func regionOf(country string) string {
	if region, ok := countryRegions[strings.ToLower(strings.TrimSpace(country))]; ok {
		return region
	}
	return "Other"
}

// Roster team fields carry status suffixes like "FaZe (coach)" or
// "NAVI (benched)"; those players still count as being on the same team.
var teamSuffix = regexp.MustCompile(`(?i)\s*\((coach|benched)\)$`)

func baseTeamName(team string) string {
	return teamSuffix.ReplaceAllString(team, "")
}

func equalFold(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// compareBounded grades a numeric guess. The tolerance boundary itself is
// still VerdictNear.
func compareBounded(guessed, target, tolerance int) Verdict {
	switch diff := guessed - target; {
	case diff == 0:
		return VerdictExact
	case diff >= -tolerance && diff <= tolerance:
		return VerdictNear
	case diff > 0:
		return VerdictHigher
	default:
		return VerdictLower
	}
}

// Evaluate grades a candidate's attributes against the hidden target. Pure;
// the caller decides what to do with the result.
func Evaluate(name string, candidate, target PlayerAttributes) Comparison {
	countryCorrect := equalFold(candidate.Country, target.Country)
	region := regionOf(candidate.Country)
	targetRegion := regionOf(target.Country)

	return Comparison{
		Name:           name,
		Team:           candidate.Team,
		TeamCorrect:    equalFold(baseTeamName(candidate.Team), baseTeamName(target.Team)),
		Country:        candidate.Country,
		CountryCorrect: countryCorrect,
		CountryNear:    !countryCorrect && region != "Other" && region == targetRegion,
		Region:         region,
		TargetRegion:   targetRegion,
		Role:           candidate.Role,
		RoleCorrect:    equalFold(candidate.Role, target.Role),
		BirthYear:      compareBounded(candidate.BirthYear, target.BirthYear, birthYearTolerance),
		GuessedAge:     referenceYear - candidate.BirthYear,
		TargetAge:      referenceYear - target.BirthYear,
		Majors:         compareBounded(candidate.Majors, target.Majors, majorsTolerance),
		GuessedMajors:  candidate.Majors,
		TargetMajors:   target.Majors,
	}
}
