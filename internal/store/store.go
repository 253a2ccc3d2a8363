// Package store persists agents, specifications, knowledge bases, sessions
// and runs. SQLite backs local development, Postgres production; the dialect
// is chosen by the configured driver.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jinzhu/gorm"
	_ "github.com/lib/pq"           // Postgres driver
	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"agentforge/internal/spec"
)

var (
	ErrAgentNotFound         = errors.New("agent not found")
	ErrSpecificationNotFound = errors.New("specification not found")
	ErrSessionNotFound       = errors.New("session not found")
	ErrDuplicateSlug         = errors.New("agent slug already exists")
)

// Store wraps the database handle with the persistence operations of the
// provisioning pipeline.
type Store struct {
	db *gorm.DB
}

// Open connects to the database and migrates the schema.
func Open(dialect, dsn string) (*Store, error) {
	db, err := gorm.Open(dialect, dsn)
	if err != nil {
		return nil, fmt.Errorf("opening %s database: %w", dialect, err)
	}
	db.AutoMigrate(&Agent{}, &SpecificationRecord{}, &KnowledgeBase{}, &Session{}, &Run{})
	if db.Error != nil {
		return nil, fmt.Errorf("migrating schema: %w", db.Error)
	}
	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// CreateSpecification persists a specification in pending state and returns
// its id.
func (s *Store) CreateSpecification(sp *spec.Specification, createdBy string) (string, error) {
	data, err := json.Marshal(sp)
	if err != nil {
		return "", fmt.Errorf("encoding specification: %w", err)
	}
	record := SpecificationRecord{
		Specification: string(data),
		Status:        SpecStatusPending,
		CreatedBy:     createdBy,
	}
	if err := s.db.Create(&record).Error; err != nil {
		return "", fmt.Errorf("saving specification: %w", err)
	}
	return record.ID, nil
}

// UpdateSpecificationStatus transitions a stored specification, optionally
// linking the agent it produced.
func (s *Store) UpdateSpecificationStatus(id, status, agentID string) error {
	var record SpecificationRecord
	if err := s.db.First(&record, "id = ?", id).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return fmt.Errorf("%w: %s", ErrSpecificationNotFound, id)
		}
		return err
	}
	updates := map[string]interface{}{"status": status, "updated_at": time.Now()}
	if agentID != "" {
		updates["created_agent_id"] = agentID
	}
	return s.db.Model(&record).Updates(updates).Error
}

// GetSpecification fetches a stored specification by id.
func (s *Store) GetSpecification(id string) (*SpecificationRecord, error) {
	var record SpecificationRecord
	if err := s.db.First(&record, "id = ?", id).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, fmt.Errorf("%w: %s", ErrSpecificationNotFound, id)
		}
		return nil, err
	}
	return &record, nil
}

// CreateAgent persists a new agent built from a specification. A slug
// collision is reported as ErrDuplicateSlug.
func (s *Store) CreateAgent(sp *spec.Specification, createdBy string) (*Agent, error) {
	modelConfig, err := json.Marshal(sp.ModelConfig)
	if err != nil {
		return nil, err
	}
	toolsConfig, err := json.Marshal(sp.ToolsConfig)
	if err != nil {
		return nil, err
	}
	instructions, err := json.Marshal(sp.Instructions)
	if err != nil {
		return nil, err
	}

	agent := Agent{
		Name:             sp.AgentConfig.Name,
		Slug:             sp.AgentConfig.Slug,
		Description:      sp.AgentConfig.Description,
		Role:             sp.AgentConfig.Role,
		Specialization:   sp.AgentConfig.Specialization,
		ModelConfig:      string(modelConfig),
		ToolsConfig:      string(toolsConfig),
		Instructions:     string(instructions),
		ReasoningEnabled: sp.Features.ReasoningEnabled,
		MemoryEnabled:    sp.Features.MemoryEnabled,
		KnowledgeEnabled: sp.Features.KnowledgeEnabled,
		Markdown:         sp.Features.Markdown,
		Status:           AgentStatusActive,
		CreatedBy:        createdBy,
	}
	if err := s.db.Create(&agent).Error; err != nil {
		if isDuplicateSlugError(err) {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateSlug, sp.AgentConfig.Slug)
		}
		return nil, fmt.Errorf("saving agent: %w", err)
	}
	return &agent, nil
}

// GetAgent fetches an agent in any status.
func (s *Store) GetAgent(id string) (*Agent, error) {
	var agent Agent
	if err := s.db.First(&agent, "id = ?", id).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, fmt.Errorf("%w: %s", ErrAgentNotFound, id)
		}
		return nil, err
	}
	return &agent, nil
}

// GetActiveAgent fetches an agent only if it is active. Soft-deleted agents are
// invisible to the runtime.
func (s *Store) GetActiveAgent(id string) (*Agent, error) {
	var agent Agent
	err := s.db.First(&agent, "id = ? AND status = ?", id, AgentStatusActive).Error
	if err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, fmt.Errorf("%w: %s", ErrAgentNotFound, id)
		}
		return nil, err
	}
	return &agent, nil
}

// AgentFilter narrows ListAgents. Zero values mean no filtering; a Limit
// of zero returns everything.
type AgentFilter struct {
	Status         string
	Specialization string
	Limit          int
	Offset         int
}

// ListAgents returns agents matching the filter, newest first.
func (s *Store) ListAgents(filter AgentFilter) ([]Agent, error) {
	var agents []Agent
	query := s.db.Order("created_at desc")
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Specialization != "" {
		query = query.Where("specialization = ?", filter.Specialization)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}
	if err := query.Find(&agents).Error; err != nil {
		return nil, err
	}
	return agents, nil
}

// DeleteAgent marks an agent deleted, keeping its rows and history.
func (s *Store) DeleteAgent(id string) error {
	result := s.db.Model(&Agent{}).Where("id = ?", id).
		Updates(map[string]interface{}{"status": AgentStatusDeleted, "updated_at": time.Now()})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", ErrAgentNotFound, id)
	}
	return nil
}

// AgentUpdate carries the mutable fields of an agent; nil pointers leave
// the stored value untouched.
type AgentUpdate struct {
	Name          *string
	Description   *string
	SystemMessage *string
}

// UpdateAgent applies a partial update to an agent.
func (s *Store) UpdateAgent(id string, update AgentUpdate) (*Agent, error) {
	agent, err := s.GetAgent(id)
	if err != nil {
		return nil, err
	}

	changes := map[string]interface{}{"updated_at": time.Now()}
	if update.Name != nil {
		changes["name"] = *update.Name
	}
	if update.Description != nil {
		changes["description"] = *update.Description
	}
	if update.SystemMessage != nil {
		var instructions spec.Instructions
		if err := json.Unmarshal([]byte(agent.Instructions), &instructions); err != nil {
			return nil, err
		}
		instructions.SystemMessage = *update.SystemMessage
		data, err := json.Marshal(instructions)
		if err != nil {
			return nil, err
		}
		changes["instructions"] = string(data)
	}

	if err := s.db.Model(agent).Updates(changes).Error; err != nil {
		return nil, err
	}
	return s.GetAgent(id)
}

// TouchAgentUsage bumps the usage counters after a successful load.
func (s *Store) TouchAgentUsage(id string) error {
	now := time.Now()
	return s.db.Model(&Agent{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"last_used_at":   now,
			"total_sessions": gorm.Expr("total_sessions + 1"),
		}).Error
}

// CreateKnowledgeBase persists a knowledge base descriptor for an agent.
func (s *Store) CreateKnowledgeBase(agentID, name, kbType string, sources []string) (*KnowledgeBase, error) {
	data, err := json.Marshal(sources)
	if err != nil {
		return nil, err
	}
	kb := KnowledgeBase{
		AgentID: agentID,
		Name:    name,
		Type:    kbType,
		Sources: string(data),
	}
	if err := s.db.Create(&kb).Error; err != nil {
		return nil, fmt.Errorf("saving knowledge base: %w", err)
	}
	return &kb, nil
}

// GetKnowledgeBase fetches the knowledge base descriptor of an agent, or
// nil when none exists.
func (s *Store) GetKnowledgeBase(agentID string) (*KnowledgeBase, error) {
	var kb KnowledgeBase
	if err := s.db.First(&kb, "agent_id = ?", agentID).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, nil
		}
		return nil, err
	}
	return &kb, nil
}

// CreateSession opens a conversation with an agent.
func (s *Store) CreateSession(agentID, userID string) (*Session, error) {
	session := Session{AgentID: agentID, UserID: userID}
	if err := s.db.Create(&session).Error; err != nil {
		return nil, fmt.Errorf("saving session: %w", err)
	}
	return &session, nil
}

// GetSession fetches a session by id.
func (s *Store) GetSession(id string) (*Session, error) {
	var session Session
	if err := s.db.First(&session, "id = ?", id).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
		}
		return nil, err
	}
	return &session, nil
}

// ListSessions returns an agent's sessions, newest first.
func (s *Store) ListSessions(agentID string) ([]Session, error) {
	var sessions []Session
	err := s.db.Where("agent_id = ?", agentID).Order("created_at desc").Find(&sessions).Error
	if err != nil {
		return nil, err
	}
	return sessions, nil
}

// DeleteSession removes a session and its runs.
func (s *Store) DeleteSession(id string) error {
	session, err := s.GetSession(id)
	if err != nil {
		return err
	}
	if err := s.db.Where("session_id = ?", id).Delete(&Run{}).Error; err != nil {
		return err
	}
	return s.db.Delete(session).Error
}

// SessionRuns returns all runs of a session, oldest first.
func (s *Store) SessionRuns(sessionID string) ([]Run, error) {
	var runs []Run
	err := s.db.Where("session_id = ?", sessionID).Order("created_at asc").Find(&runs).Error
	if err != nil {
		return nil, err
	}
	return runs, nil
}

// AppendRun records one exchange and updates the session counters.
func (s *Store) AppendRun(run *Run) error {
	if err := s.db.Create(run).Error; err != nil {
		return fmt.Errorf("saving run: %w", err)
	}
	now := time.Now()
	return s.db.Model(&Session{}).Where("id = ?", run.SessionID).
		Updates(map[string]interface{}{
			"total_messages":  gorm.Expr("total_messages + 1"),
			"last_message_at": now,
			"updated_at":      now,
		}).Error
}

// RecentRuns returns the last n completed runs of a session, oldest first,
// for history replay.
func (s *Store) RecentRuns(sessionID string, n int) ([]Run, error) {
	var runs []Run
	err := s.db.Where("session_id = ? AND status = ?", sessionID, "completed").
		Order("created_at desc").Limit(n).Find(&runs).Error
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(runs)-1; i < j; i, j = i+1, j-1 {
		runs[i], runs[j] = runs[j], runs[i]
	}
	return runs, nil
}

// isDuplicateSlugError matches the unique-violation wording of both
// supported dialects.
func isDuplicateSlugError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key")
}
