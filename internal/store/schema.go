package store

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

// Table and column names shared by the repositories.
const (
	tableSequence    = "global_sequence"
	tableDocuments   = "documents"
	tableLLMEvents   = "llm_request_events"
	tableSessions    = "practice_session_events"
	tableAnswers     = "answer_events"
	tableHints       = "hint_events"
	tableSummaries   = "summary_events"
	colSequence      = "sequence"
	colCreatedAt     = "created_at"
	longTextSize     = 1 << 24
	pathSize         = 512
	defaultShortSize = 255
)

// eventColumns are the columns every event table starts with: a row ID,
// the global sequence number and the append time.
func eventColumns(extra ...*schema.Column) []*schema.Column {
	cols := []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: colSequence, Type: field.TypeInt64, Unique: true},
		{Name: colCreatedAt, Type: field.TypeTime},
	}
	return append(cols, extra...)
}

func eventTable(name string, cols []*schema.Column, indexed ...string) *schema.Table {
	t := &schema.Table{
		Name:       name,
		Columns:    cols,
		PrimaryKey: []*schema.Column{cols[0]},
	}
	for _, col := range indexed {
		for _, c := range cols {
			if c.Name == col {
				t.Indexes = append(t.Indexes, &schema.Index{
					Name:    name + "_" + col,
					Columns: []*schema.Column{c},
				})
			}
		}
	}
	return t
}

func str(name string) *schema.Column {
	return &schema.Column{Name: name, Type: field.TypeString, Size: defaultShortSize, Default: ""}
}

// text columns carry no default; MySQL rejects defaults on TEXT types.
func text(name string) *schema.Column {
	return &schema.Column{Name: name, Type: field.TypeString, Size: longTextSize}
}

func integer(name string) *schema.Column {
	return &schema.Column{Name: name, Type: field.TypeInt, Default: 0}
}

func boolean(name string) *schema.Column {
	return &schema.Column{Name: name, Type: field.TypeBool, Default: false}
}

var (
	sequenceColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt},
		{Name: "next_val", Type: field.TypeInt64, Default: 1},
	}
	sequenceTable = &schema.Table{
		Name:       tableSequence,
		Columns:    sequenceColumns,
		PrimaryKey: []*schema.Column{sequenceColumns[0]},
	}

	documentColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "path", Type: field.TypeString, Size: pathSize, Unique: true},
		{Name: "parent", Type: field.TypeString, Size: pathSize},
		{Name: "data", Type: field.TypeJSON},
		{Name: colCreatedAt, Type: field.TypeTime},
		{Name: "updated_at", Type: field.TypeTime},
	}
	documentTable = &schema.Table{
		Name:       tableDocuments,
		Columns:    documentColumns,
		PrimaryKey: []*schema.Column{documentColumns[0]},
		Indexes: []*schema.Index{
			{Name: "documents_parent", Columns: []*schema.Column{documentColumns[2]}},
		},
	}

	llmEventTable = eventTable(tableLLMEvents, eventColumns(
		str("provider"),
		str("model"),
		str("purpose"),
		integer("input_tokens"),
		integer("output_tokens"),
		&schema.Column{Name: "latency_ms", Type: field.TypeInt64, Default: 0},
		boolean("success"),
		text("error_message"),
		text("request_body"),
		text("response_body"),
	), "purpose", "model")

	sessionEventTable = eventTable(tableSessions, eventColumns(
		str("session_id"),
		str("guardian_id"),
		str("action"),
		integer("questions_answered"),
		integer("correct_answers"),
		&schema.Column{Name: "duration_secs", Type: field.TypeInt64, Default: 0},
	), "session_id")

	answerEventTable = eventTable(tableAnswers, eventColumns(
		str("session_id"),
		str("problem_id"),
		str("grade_level"),
		str("topic"),
		str("difficulty"),
		text("statement"),
		text("canonical_answer"),
		text("submitted_answer"),
		boolean("correct"),
		integer("hints_revealed"),
		boolean("upgrade_suggested"),
	), "session_id", "topic")

	hintEventTable = eventTable(tableHints, eventColumns(
		str("session_id"),
		str("problem_id"),
		integer("revealed"),
		integer("total"),
		boolean("solution"),
	), "session_id")

	summaryEventTable = eventTable(tableSummaries, eventColumns(
		str("session_id"),
		str("recipient"),
		str("topic"),
		str("difficulty"),
		integer("correct"),
		integer("total"),
		&schema.Column{Name: "duration_secs", Type: field.TypeInt64, Default: 0},
		boolean("success"),
		text("error_message"),
	), "session_id")

	// tables is the full schema migrated by Open.
	tables = []*schema.Table{
		sequenceTable,
		documentTable,
		llmEventTable,
		sessionEventTable,
		answerEventTable,
		hintEventTable,
		summaryEventTable,
	}
)
