package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func attrs(team, country, role string, birthYear, majors int) PlayerAttributes {
	return PlayerAttributes{
		Team:      team,
		Country:   country,
		Role:      role,
		BirthYear: birthYear,
		Majors:    majors,
	}
}

func TestEvaluateTeamSuffixStripping(t *testing.T) {
	target := attrs("FaZe", "Denmark", "IGL", 1990, 15)

	result := Evaluate("karrigan", attrs("FaZe (coach)", "Denmark", "IGL", 1990, 15), target)
	assert.True(t, result.TeamCorrect, "coach suffix should not break team equality")

	result = Evaluate("x", attrs("faze (BENCHED)", "Denmark", "IGL", 1990, 15), target)
	assert.True(t, result.TeamCorrect, "suffix stripping and comparison are case-insensitive")

	result = Evaluate("x", attrs("Vitality", "Denmark", "IGL", 1990, 15), target)
	assert.False(t, result.TeamCorrect)
}

func TestEvaluateCountryRegions(t *testing.T) {
	target := attrs("NAVI", "Ukraine", "AWPer", 1997, 8)

	exact := Evaluate("x", attrs("NAVI", "ukraine", "AWPer", 1997, 8), target)
	assert.True(t, exact.CountryCorrect)
	assert.False(t, exact.CountryNear, "exact matches are not also near")

	near := Evaluate("x", attrs("NAVI", "Poland", "AWPer", 1997, 8), target)
	assert.False(t, near.CountryCorrect)
	assert.True(t, near.CountryNear, "Poland and Ukraine share Europe")
	assert.Equal(t, "Europe", near.Region)
	assert.Equal(t, "Europe", near.TargetRegion)

	far := Evaluate("x", attrs("NAVI", "Brazil", "AWPer", 1997, 8), target)
	assert.False(t, far.CountryCorrect)
	assert.False(t, far.CountryNear)
	assert.Equal(t, "South America", far.Region)
}

func TestEvaluateUnlistedCountriesNeverNear(t *testing.T) {
	// Two countries outside the region table both map to Other, which must
	// not count as sharing a region.
	target := attrs("A", "Atlantis", "Rifler", 2000, 0)
	result := Evaluate("x", attrs("A", "Lemuria", "Rifler", 2000, 0), target)

	assert.Equal(t, "Other", result.Region)
	assert.Equal(t, "Other", result.TargetRegion)
	assert.False(t, result.CountryNear)
}

func TestEvaluateBirthYearVerdicts(t *testing.T) {
	target := attrs("A", "Denmark", "Rifler", 1995, 5)

	cases := []struct {
		year int
		want Verdict
	}{
		{1995, VerdictExact},
		{1998, VerdictNear},
		{1992, VerdictNear},
		{1999, VerdictHigher},
		{1991, VerdictLower},
	}
	for _, tc := range cases {
		result := Evaluate("x", attrs("A", "Denmark", "Rifler", tc.year, 5), target)
		assert.Equalf(t, tc.want, result.BirthYear, "candidate year %d vs target 1995", tc.year)
	}
}

func TestEvaluateAgeInvertsYearDirection(t *testing.T) {
	target := attrs("A", "Denmark", "Rifler", 1995, 5)
	result := Evaluate("x", attrs("A", "Denmark", "Rifler", 1999, 5), target)

	// A higher birth year means a younger, i.e. lower-aged, candidate.
	assert.Equal(t, VerdictHigher, result.BirthYear)
	assert.Less(t, result.GuessedAge, result.TargetAge)
}

func TestEvaluateMajorsVerdicts(t *testing.T) {
	target := attrs("A", "Denmark", "Rifler", 1995, 10)

	cases := []struct {
		majors int
		want   Verdict
	}{
		{10, VerdictExact},
		{12, VerdictNear},
		{8, VerdictNear},
		{13, VerdictHigher},
		{7, VerdictLower},
	}
	for _, tc := range cases {
		result := Evaluate("x", attrs("A", "Denmark", "Rifler", 1995, tc.majors), target)
		assert.Equalf(t, tc.want, result.Majors, "candidate majors %d vs target 10", tc.majors)
	}
}

func TestEvaluateRole(t *testing.T) {
	target := attrs("A", "Denmark", "AWPer", 1995, 5)

	assert.True(t, Evaluate("x", attrs("A", "Denmark", "awper", 1995, 5), target).RoleCorrect)
	assert.False(t, Evaluate("x", attrs("A", "Denmark", "IGL", 1995, 5), target).RoleCorrect)
}

func TestRegionOfTrimsAndFolds(t *testing.T) {
	assert.Equal(t, "CIS", regionOf(" kazakhstan "))
	assert.Equal(t, "Other", regionOf(""))
}
