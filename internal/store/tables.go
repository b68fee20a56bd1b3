package store

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

// Table and column names.
const (
	tableKV       = "kv"
	tableHistory  = "history"
	tableRatings  = "ratings"
	tableViews    = "resource_views"
	tableLLMEvent = "llm_request_events"

	colKey       = "key"
	colValue     = "value"
	colSeq       = "seq"
	colRecordID  = "record_id"
	colData      = "data"
	colUpdatedAt = "updated_at"
	colResource  = "resource"
	colCount     = "count"
)

var (
	// KVColumns holds the singleton slots (current user, current session).
	KVColumns = []*schema.Column{
		{Name: colKey, Type: field.TypeString},
		{Name: colValue, Type: field.TypeString, Size: 2147483647},
		{Name: colUpdatedAt, Type: field.TypeTime},
	}
	KVTable = &schema.Table{
		Name:       tableKV,
		Columns:    KVColumns,
		PrimaryKey: []*schema.Column{KVColumns[0]},
	}

	// HistoryColumns keeps completed sessions. seq preserves first-insert
	// order across upserts.
	HistoryColumns = []*schema.Column{
		{Name: colSeq, Type: field.TypeInt64, Increment: true},
		{Name: colRecordID, Type: field.TypeString, Unique: true},
		{Name: colData, Type: field.TypeString, Size: 2147483647},
		{Name: colUpdatedAt, Type: field.TypeTime},
	}
	HistoryTable = &schema.Table{
		Name:       tableHistory,
		Columns:    HistoryColumns,
		PrimaryKey: []*schema.Column{HistoryColumns[0]},
	}

	// RatingsColumns keeps submitted ratings, append-only.
	RatingsColumns = []*schema.Column{
		{Name: colSeq, Type: field.TypeInt64, Increment: true},
		{Name: colRecordID, Type: field.TypeString, Unique: true},
		{Name: colData, Type: field.TypeString, Size: 2147483647},
		{Name: colUpdatedAt, Type: field.TypeTime},
	}
	RatingsTable = &schema.Table{
		Name:       tableRatings,
		Columns:    RatingsColumns,
		PrimaryKey: []*schema.Column{RatingsColumns[0]},
	}

	// ViewsColumns counts visits per wellness resource.
	ViewsColumns = []*schema.Column{
		{Name: colResource, Type: field.TypeString},
		{Name: colCount, Type: field.TypeInt, Default: 0},
	}
	ViewsTable = &schema.Table{
		Name:       tableViews,
		Columns:    ViewsColumns,
		PrimaryKey: []*schema.Column{ViewsColumns[0]},
	}

	// LLMEventColumns records one row per provider call.
	LLMEventColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64},
		{Name: "timestamp", Type: field.TypeTime},
		{Name: "request_id", Type: field.TypeString},
		{Name: "provider", Type: field.TypeString},
		{Name: "model", Type: field.TypeString},
		{Name: "purpose", Type: field.TypeString},
		{Name: "input_tokens", Type: field.TypeInt},
		{Name: "output_tokens", Type: field.TypeInt},
		{Name: "latency_ms", Type: field.TypeInt64},
		{Name: "success", Type: field.TypeBool},
		{Name: "error_message", Type: field.TypeString, Default: ""},
		{Name: "request_body", Type: field.TypeString, Size: 2147483647, Default: ""},
		{Name: "response_body", Type: field.TypeString, Size: 2147483647, Default: ""},
	}
	LLMEventTable = &schema.Table{
		Name:       tableLLMEvent,
		Columns:    LLMEventColumns,
		PrimaryKey: []*schema.Column{LLMEventColumns[0]},
		Indexes: []*schema.Index{
			{Name: "llmrequestevent_sequence", Unique: true, Columns: []*schema.Column{LLMEventColumns[1]}},
		},
	}

	// Tables holds every table the store migrates.
	Tables = []*schema.Table{
		KVTable,
		HistoryTable,
		RatingsTable,
		ViewsTable,
		LLMEventTable,
	}
)
