package store

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jinzhu/gorm"

	"agentforge/internal/spec"
)

// Agent lifecycle states.
const (
	AgentStatusActive  = "active"
	AgentStatusDeleted = "deleted"
)

// Specification lifecycle states.
const (
	SpecStatusPending  = "pending"
	SpecStatusCreated  = "created"
	SpecStatusRejected = "rejected"
)

// Agent is a provisioned dynamic agent. Structured configuration is stored
// as JSON text columns and projected back through Specification().
type Agent struct {
	ID             string `gorm:"primary_key;type:varchar(36)"`
	Name           string `gorm:"not null"`
	Slug           string `gorm:"unique;not null"`
	Description    string `gorm:"type:text"`
	Role           string
	Specialization string

	ModelConfig  string `gorm:"type:text;not null"`
	ToolsConfig  string `gorm:"type:text;not null"`
	Instructions string `gorm:"type:text;not null"`

	ReasoningEnabled bool
	MemoryEnabled    bool
	KnowledgeEnabled bool
	Markdown         bool

	Status    string `gorm:"default:'active'"`
	CreatedBy string
	CreatedAt time.Time
	UpdatedAt time.Time

	TotalSessions     int
	AvgResponseTimeMs float64
	SuccessRate       float64
	LastUsedAt        *time.Time
}

func (Agent) TableName() string { return "dynamic_agents" }

func (a *Agent) BeforeCreate(scope *gorm.Scope) error {
	if a.ID == "" {
		return scope.SetColumn("ID", uuid.NewString())
	}
	return nil
}

// Specification rebuilds the agent's specification from the JSON columns.
func (a *Agent) Specification() (spec.Specification, error) {
	s := spec.Specification{
		AgentConfig: spec.AgentConfig{
			Name:           a.Name,
			Slug:           a.Slug,
			Description:    a.Description,
			Role:           a.Role,
			Specialization: a.Specialization,
		},
		Features: spec.Features{
			ReasoningEnabled: a.ReasoningEnabled,
			MemoryEnabled:    a.MemoryEnabled,
			KnowledgeEnabled: a.KnowledgeEnabled,
			Markdown:         a.Markdown,
		},
	}
	if err := json.Unmarshal([]byte(a.ModelConfig), &s.ModelConfig); err != nil {
		return s, err
	}
	if err := json.Unmarshal([]byte(a.ToolsConfig), &s.ToolsConfig); err != nil {
		return s, err
	}
	if err := json.Unmarshal([]byte(a.Instructions), &s.Instructions); err != nil {
		return s, err
	}
	return s, nil
}

// SpecificationRecord is a stored specification awaiting or following
// provisioning.
type SpecificationRecord struct {
	ID             string `gorm:"primary_key;type:varchar(36)"`
	Specification  string `gorm:"type:text;not null"`
	Status         string `gorm:"default:'pending'"`
	CreatedAgentID string
	CreatedBy      string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (SpecificationRecord) TableName() string { return "agent_specifications" }

func (r *SpecificationRecord) BeforeCreate(scope *gorm.Scope) error {
	if r.ID == "" {
		return scope.SetColumn("ID", uuid.NewString())
	}
	return nil
}

// KnowledgeBase is the descriptor for an agent's knowledge attachment.
type KnowledgeBase struct {
	ID            string `gorm:"primary_key;type:varchar(36)"`
	AgentID       string `gorm:"index;not null"`
	Name          string `gorm:"not null"`
	Type          string `gorm:"not null"`
	Sources       string `gorm:"type:text;not null"`
	Status        string `gorm:"default:'configured'"`
	DocumentCount int
	LastUpdated   *time.Time
	CreatedAt     time.Time
}

func (KnowledgeBase) TableName() string { return "dynamic_knowledge_bases" }

func (k *KnowledgeBase) BeforeCreate(scope *gorm.Scope) error {
	if k.ID == "" {
		return scope.SetColumn("ID", uuid.NewString())
	}
	return nil
}

// SourceList decodes the JSON sources column.
func (k *KnowledgeBase) SourceList() []string {
	var sources []string
	_ = json.Unmarshal([]byte(k.Sources), &sources)
	return sources
}

// Session is one conversation with an agent.
type Session struct {
	ID            string `gorm:"primary_key;type:varchar(36)"`
	AgentID       string `gorm:"index;not null"`
	UserID        string
	TotalMessages int
	CreatedAt     time.Time
	UpdatedAt     time.Time
	LastMessageAt *time.Time
}

func (Session) TableName() string { return "dynamic_agent_sessions" }

func (s *Session) BeforeCreate(scope *gorm.Scope) error {
	if s.ID == "" {
		return scope.SetColumn("ID", uuid.NewString())
	}
	return nil
}

// Run is one exchange within a session.
type Run struct {
	ID           string `gorm:"primary_key;type:varchar(36)"`
	SessionID    string `gorm:"index;not null"`
	InputMessage string `gorm:"type:text;not null"`
	ResponseText string `gorm:"type:text"`
	DurationMs   int64
	TokensUsed   int
	Status       string `gorm:"default:'completed'"`
	ErrorMessage string `gorm:"type:text"`
	CreatedAt    time.Time
	CompletedAt  *time.Time
}

func (Run) TableName() string { return "dynamic_agent_runs" }

func (r *Run) BeforeCreate(scope *gorm.Scope) error {
	if r.ID == "" {
		return scope.SetColumn("ID", uuid.NewString())
	}
	return nil
}
