package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScoreBoardIncrementAndLeader(t *testing.T) {
	s := newScoreBoard()
	assert.Equal(t, 0, s.leader())

	s.increment("a")
	s.increment("a")
	s.increment("b")
	assert.Equal(t, 2, s.leader())
}

func TestScoreBoardHasWinnerReturnsAllCoLeaders(t *testing.T) {
	s := newScoreBoard()
	s.increment("a")
	s.increment("a")
	s.increment("b")
	s.increment("b")

	winners := s.hasWinner(2)
	assert.ElementsMatch(t, []string{"a", "b"}, winners)

	assert.Empty(t, s.hasWinner(3))
}

func TestScoreBoardReset(t *testing.T) {
	s := newScoreBoard()
	s.increment("a")
	s.reset()

	assert.Equal(t, 0, s.leader())
	assert.Empty(t, s.hasWinner(1))
}

func TestScoreBoardSnapshotIncludesZeroEntries(t *testing.T) {
	s := newScoreBoard()
	s.increment("a")

	entries := s.snapshot([]string{"a", "b"})
	assert.Equal(t, []ScoreEntry{
		{MemberID: "a", Wins: 1},
		{MemberID: "b", Wins: 0},
	}, entries)
}
