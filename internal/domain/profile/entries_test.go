package profile

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func titles(items []Experience) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Title)
	}
	return out
}

func TestProfile_AddExperience_Prepends(t *testing.T) {
	var p Profile
	first := p.AddExperience(Experience{Title: "Intern", Company: "Acme", From: time.Date(2018, 1, 1, 0, 0, 0, 0, time.UTC)})
	second := p.AddExperience(Experience{Title: "Engineer", Company: "Globex", From: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)})

	require.Len(t, p.Experience, 2)
	assert.Equal(t, []string{"Engineer", "Intern"}, titles(p.Experience))
	assert.NotEqual(t, uuid.Nil, first.ID)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, second.ID, p.Experience[0].ID)
}

func TestProfile_AddEducation_Prepends(t *testing.T) {
	var p Profile
	p.AddEducation(Education{School: "State U", Degree: "BSc"})
	p.AddEducation(Education{School: "Tech Institute", Degree: "MSc"})

	require.Len(t, p.Education, 2)
	assert.Equal(t, "Tech Institute", p.Education[0].School)
	assert.Equal(t, "State U", p.Education[1].School)
}

func TestProfile_RemoveExperience_KeepsOrder(t *testing.T) {
	var p Profile
	a := p.AddExperience(Experience{Title: "a"})
	b := p.AddExperience(Experience{Title: "b"})
	c := p.AddExperience(Experience{Title: "c"})
	snapshot := append([]Experience(nil), p.Experience...)

	require.NoError(t, p.RemoveExperience(b.ID))

	assert.Equal(t, []string{"c", "a"}, titles(p.Experience))
	assert.Equal(t, c.ID, p.Experience[0].ID)
	assert.Equal(t, a.ID, p.Experience[1].ID)
	assert.Equal(t, []string{"c", "b", "a"}, titles(snapshot))
}

func TestProfile_RemoveExperience_UnknownID(t *testing.T) {
	var p Profile
	p.AddExperience(Experience{Title: "a"})
	p.AddExperience(Experience{Title: "b"})

	err := p.RemoveExperience(uuid.New())
	assert.ErrorIs(t, err, ErrEntryNotFound)
	assert.Equal(t, []string{"b", "a"}, titles(p.Experience))
}

func TestProfile_RemoveEducation(t *testing.T) {
	var p Profile
	first := p.AddEducation(Education{School: "first"})
	p.AddEducation(Education{School: "second"})

	require.NoError(t, p.RemoveEducation(first.ID))
	require.Len(t, p.Education, 1)
	assert.Equal(t, "second", p.Education[0].School)

	assert.ErrorIs(t, p.RemoveEducation(first.ID), ErrEntryNotFound)
}

func TestFields_Apply_OnlySetFields(t *testing.T) {
	p := Profile{Handle: "jdoe", Company: "Acme", Bio: "hello", Skills: []string{"go"}}
	company := "Globex"

	Fields{Company: &company, Social: Social{Twitter: "https://twitter.com/jdoe"}}.Apply(&p)

	assert.Equal(t, "jdoe", p.Handle)
	assert.Equal(t, "Globex", p.Company)
	assert.Equal(t, "hello", p.Bio)
	assert.Equal(t, []string{"go"}, p.Skills)
	assert.Equal(t, "https://twitter.com/jdoe", p.Social.Twitter)
}
