package model

// Job is one row of the job metadata table. Row is its position in the
// table, which is also its row in the job vector matrix.
type Job struct {
	ID          int64
	Row         int
	Title       string
	Description string

	fields map[string]any
}

// NewJob builds a Job that owns the given column values. The map must not be
// modified by the caller afterwards.
func NewJob(row int, id int64, title, description string, fields map[string]any) Job {
	if fields == nil {
		fields = map[string]any{}
	}
	return Job{
		ID:          id,
		Row:         row,
		Title:       title,
		Description: description,
		fields:      fields,
	}
}

// Field returns the value of a single metadata column.
func (j Job) Field(name string) (any, bool) {
	v, ok := j.fields[name]
	return v, ok
}

// Record returns a copy of every metadata column of the job.
func (j Job) Record() map[string]any {
	out := make(map[string]any, len(j.fields))
	for k, v := range j.fields {
		out[k] = v
	}
	return out
}
