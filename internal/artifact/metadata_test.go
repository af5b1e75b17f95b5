package artifact

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fadilmartias/jobmate-ml-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseJobMetadataFixture(t *testing.T) {
	t.Parallel()
	f := testutil.NewFixture()

	jobs, err := ParseJobMetadata(bytes.NewReader(f.MetadataCSV))
	require.NoError(t, err)
	assert.Equal(t, testutil.Jobs(), jobs)
}

func TestParseJobMetadataTypesAndMissingValues(t *testing.T) {
	t.Parallel()

	csv := "\ufeffid,job_title,Salary,Remote,Notes,Rating\n" +
		"7,Engineer,100,True,NA,4.5\n" +
		"9,,,False,remote ok,\n" +
		"12,Analyst,250,,n/a,3\n"

	jobs, err := ParseJobMetadata(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, jobs, 3)

	assert.Equal(t, int64(7), jobs[0].ID)
	assert.Equal(t, "Engineer", jobs[0].Title)
	assert.Equal(t, "", jobs[0].Description)
	assert.Equal(t, map[string]any{
		"id":        int64(7),
		"job_title": "Engineer",
		"Salary":    int64(100),
		"Remote":    true,
		"Notes":     nil,
		"Rating":    4.5,
	}, jobs[0].Record())

	assert.Equal(t, DefaultTitle, jobs[1].Title)
	salary, ok := jobs[1].Field("Salary")
	assert.True(t, ok)
	assert.Nil(t, salary)
	notes, _ := jobs[1].Field("Notes")
	assert.Equal(t, "remote ok", notes)

	rating, _ := jobs[2].Field("Rating")
	assert.Equal(t, 3.0, rating)
	remote, _ := jobs[2].Field("Remote")
	assert.Nil(t, remote)
	assert.Equal(t, 2, jobs[2].Row)
}

func TestParseJobMetadataWithoutIDColumn(t *testing.T) {
	t.Parallel()

	csv := "title,description\nDesigner,Draws things\nWriter,Writes things\n"
	jobs, err := ParseJobMetadata(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, jobs, 2)

	for i, job := range jobs {
		assert.Equal(t, int64(i), job.ID)
		id, _ := job.Field("id")
		assert.Equal(t, int64(i), id)
	}
	assert.Equal(t, "Writes things", jobs[1].Description)
}

func TestParseJobMetadataTitleColumnPriority(t *testing.T) {
	t.Parallel()

	csv := "title,Job Title,job_description,description\nlow,high,first,second\n"
	jobs, err := ParseJobMetadata(strings.NewReader(csv))
	require.NoError(t, err)

	assert.Equal(t, "high", jobs[0].Title)
	assert.Equal(t, "first", jobs[0].Description)
}

func TestParseJobMetadataHeaderNames(t *testing.T) {
	t.Parallel()

	assert.Equal(t,
		[]string{"id", "Unnamed: 1", "tag", "tag.1", "tag.2"},
		columnNames([]string{"id", "", "tag", "tag", "tag"}),
	)
}

func TestParseJobMetadataRejectsInvalidTables(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		csv  string
	}{
		{name: "empty", csv: ""},
		{name: "non integer id", csv: "id,title\na,x\n"},
		{name: "float id", csv: "id,title\n1.5,x\n"},
		{name: "missing id", csv: "id,title\n1,x\n,y\n"},
		{name: "row wider than header", csv: "id,title\n1,x,extra\n"},
		{name: "broken quoting", csv: "id,title\n1,\"x\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := ParseJobMetadata(strings.NewReader(tt.csv))
			require.Error(t, err)
		})
	}
}
