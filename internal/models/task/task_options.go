package task

// Fields - тело запроса на создание и полное обновление задачи.
// Необязательные поля не попадают в JSON, если опция не передана.
type Fields struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Priority    *Priority `json:"priority,omitempty"`
	DueDate     *Date     `json:"due_date,omitempty"`
	Tags        []string  `json:"tags,omitempty"`
}

type FieldOption func(*Fields)

func NewFields(title, description string, options ...FieldOption) Fields {
	f := Fields{Title: title, Description: description}
	for _, opt := range options {
		if opt != nil {
			opt(&f)
		}
	}
	return f
}

func WithPriority(priority Priority) FieldOption {
	if priority == PriorityUnset {
		return nil
	}
	return func(f *Fields) {
		f.Priority = &priority
	}
}

func WithDueDate(due Date) FieldOption {
	if due.IsZero() {
		return nil
	}
	return func(f *Fields) {
		f.DueDate = &due
	}
}

func WithTags(tags ...string) FieldOption {
	if tags == nil {
		return nil
	}
	return func(f *Fields) {
		f.Tags = append([]string(nil), tags...)
	}
}
