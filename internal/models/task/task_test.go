package task_test

import (
	"encoding/json"
	"taskPlanner/internal/models/task"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestTask_DecodeServerPayload тестирует разбор ответа сервера
func TestTask_DecodeServerPayload(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantDue *task.Date
	}{
		{
			name:    "iso date",
			body:    `{"id":1,"title":"a","due_date":"2024-05-15"}`,
			wantDue: &task.Date{Year: 2024, Month: time.May, Day: 15},
		},
		{
			name:    "naive datetime",
			body:    `{"id":1,"title":"a","due_date":"2024-05-15T23:30:00"}`,
			wantDue: &task.Date{Year: 2024, Month: time.May, Day: 15},
		},
		{
			name:    "datetime with zone keeps server day",
			body:    `{"id":1,"title":"a","due_date":"2024-05-15T23:30:00+03:00"}`,
			wantDue: &task.Date{Year: 2024, Month: time.May, Day: 15},
		},
		{
			name:    "us format",
			body:    `{"id":1,"title":"a","due_date":"05/15/2024"}`,
			wantDue: &task.Date{Year: 2024, Month: time.May, Day: 15},
		},
		{
			name:    "null",
			body:    `{"id":1,"title":"a","due_date":null}`,
			wantDue: nil,
		},
		{
			name:    "empty string",
			body:    `{"id":1,"title":"a","due_date":""}`,
			wantDue: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got task.Task
			require.NoError(t, json.Unmarshal([]byte(tt.body), &got))

			due, ok := got.Due()
			if tt.wantDue == nil {
				assert.False(t, ok)
				return
			}
			require.True(t, ok)
			assert.Equal(t, *tt.wantDue, due)
		})
	}
}

// TestTask_EmptyDatesEncodeAsNull тестирует повторную сериализацию пустых дат
func TestTask_EmptyDatesEncodeAsNull(t *testing.T) {
	var got task.Task
	body := `{"id":1,"title":"x","due_date":"","created_at":"","updated_at":""}`
	require.NoError(t, json.Unmarshal([]byte(body), &got))

	_, ok := got.Due()
	assert.False(t, ok)

	out, err := json.Marshal(got)
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(out, &fields))
	assert.Nil(t, fields["due_date"])
	assert.Nil(t, fields["created_at"])
	assert.Nil(t, fields["updated_at"])
	assert.NotContains(t, string(out), "-0001")
	assert.NotContains(t, string(out), "0001-01-01")

	var again task.Task
	require.NoError(t, json.Unmarshal(out, &again))
	_, ok = again.Due()
	assert.False(t, ok)
}

func TestTask_DecodeInvalidDate(t *testing.T) {
	var got task.Task
	err := json.Unmarshal([]byte(`{"id":1,"due_date":"next tuesday"}`), &got)
	assert.Error(t, err)
}

func TestTask_Timestamps(t *testing.T) {
	var got task.Task
	body := `{"id":3,"title":"a","created_at":"2024-01-02T10:00:00","updated_at":"2024-01-03T11:00:00Z"}`
	require.NoError(t, json.Unmarshal([]byte(body), &got))

	require.NotNil(t, got.CreatedAt)
	require.NotNil(t, got.UpdatedAt)
	assert.Equal(t, 2, got.CreatedAt.Day())
	assert.Equal(t, 11, got.UpdatedAt.Hour())
}

func TestTask_Clone(t *testing.T) {
	due := task.NewDate(2024, time.March, 1)
	original := task.Task{ID: 1, Title: "a", DueDate: &due, Tags: []string{"x"}}

	c := original.Clone()
	c.Tags[0] = "y"
	c.DueDate.Day = 9

	assert.Equal(t, "x", original.Tags[0])
	assert.Equal(t, 1, original.DueDate.Day)
}

func TestNewDate_Normalizes(t *testing.T) {
	d := task.NewDate(2024, time.February, 30)
	assert.Equal(t, task.Date{Year: 2024, Month: time.March, Day: 1}, d)
	assert.Equal(t, "2024-03-01", d.String())
}

func TestDate_Compare(t *testing.T) {
	a := task.NewDate(2024, time.January, 31)
	b := task.NewDate(2024, time.February, 1)

	assert.True(t, a.Before(b))
	assert.False(t, b.Before(a))
	assert.Equal(t, 0, a.Compare(a))
}

func TestParsePriority(t *testing.T) {
	p, err := task.ParsePriority("high")
	require.NoError(t, err)
	assert.Equal(t, task.PriorityHigh, p)

	_, err = task.ParsePriority("urgent")
	assert.Error(t, err)
}

// TestNewFields тестирует, что незаданные поля не попадают в тело запроса
func TestNewFields(t *testing.T) {
	tests := []struct {
		name    string
		options []task.FieldOption
		want    string
	}{
		{
			name: "only required",
			want: `{"title":"Buy milk","description":""}`,
		},
		{
			name:    "unset priority and zero date are skipped",
			options: []task.FieldOption{task.WithPriority(task.PriorityUnset), task.WithDueDate(task.Date{})},
			want:    `{"title":"Buy milk","description":""}`,
		},
		{
			name: "all options",
			options: []task.FieldOption{
				task.WithPriority(task.PriorityLow),
				task.WithDueDate(task.NewDate(2024, time.June, 7)),
				task.WithTags("home", "shop"),
			},
			want: `{"title":"Buy milk","description":"","priority":"low","due_date":"2024-06-07","tags":["home","shop"]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields := task.NewFields("Buy milk", "", tt.options...)
			data, err := json.Marshal(fields)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(data))
		})
	}
}
