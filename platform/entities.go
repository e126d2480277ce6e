package platform

import (
	"context"
	"encoding/json"

	"bitbucket.org/kwahlelwa/spazaops_backend/config"
	"bitbucket.org/kwahlelwa/spazaops_backend/models"
	"github.com/go-playground/validator/v10"
)

// recordValidator enforces the validate tags on the entity structs after
// decode. Validator instances cache struct metadata, so one is shared.
var recordValidator = validator.New()

// Entity type names as the platform knows them.
const (
	EntityShop       = "Shop"
	EntityInspection = "Inspection"
	EntityAttendance = "Attendance"
	EntityLeave      = "Leave"
	EntityShift      = "Shift"
	EntityTask       = "Task"
	EntityAgentNote  = "AgentNote"
	EntityFieldAgent = "FieldAgent"
	EntityTeam       = "Team"
	EntityOnboarding = "Onboarding"
)

// decodeRecords unmarshals each raw record into T and checks it against the
// struct's validate tags. A record that fails either step is dropped with a
// warning unless STRICT_RECORD_VALIDATION is on, in which case the whole call
// fails. The platform schema can drift ahead of this service, so lenient is
// the default.
func decodeRecords[T any](entity string, raws []json.RawMessage) ([]T, error) {
	out := make([]T, 0, len(raws))
	for _, raw := range raws {
		var rec T
		if err := json.Unmarshal(raw, &rec); err != nil {
			if config.StrictRecordValidation() {
				return nil, err
			}
			config.GetLogger().WithField("entity", entity).
				Warnf("dropping undecodable %s record: %v", entity, err)
			continue
		}
		if err := recordValidator.Struct(rec); err != nil {
			if config.StrictRecordValidation() {
				return nil, err
			}
			config.GetLogger().WithField("entity", entity).
				Warnf("dropping invalid %s record: %v", entity, err)
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

func decodeRecord[T any](raw json.RawMessage) (T, error) {
	var rec T
	err := json.Unmarshal(raw, &rec)
	return rec, err
}

// List fetches typed records, newest-sort and limit being the platform's to
// interpret.
func List[T any](ctx context.Context, c *Client, entity, sortKey string, limit int) ([]T, error) {
	raws, err := c.ListRaw(ctx, entity, sortKey, limit)
	if err != nil {
		return nil, err
	}
	return decodeRecords[T](entity, raws)
}

func Filter[T any](ctx context.Context, c *Client, entity string, predicate map[string]any) ([]T, error) {
	raws, err := c.FilterRaw(ctx, entity, predicate)
	if err != nil {
		return nil, err
	}
	return decodeRecords[T](entity, raws)
}

func Get[T any](ctx context.Context, c *Client, entity, id string) (T, error) {
	raw, err := c.GetRaw(ctx, entity, id)
	if err != nil {
		var zero T
		return zero, err
	}
	return decodeRecord[T](raw)
}

func Create[T any](ctx context.Context, c *Client, entity string, record any) (T, error) {
	raw, err := c.CreateRaw(ctx, entity, record)
	if err != nil {
		var zero T
		return zero, err
	}
	return decodeRecord[T](raw)
}

func Update[T any](ctx context.Context, c *Client, entity, id string, patch any) (T, error) {
	raw, err := c.UpdateRaw(ctx, entity, id, patch)
	if err != nil {
		var zero T
		return zero, err
	}
	return decodeRecord[T](raw)
}

// Convenience wrappers for the entities the dashboard reads constantly.

func (c *Client) ListShops(ctx context.Context, sortKey string, limit int) ([]models.Shop, error) {
	return List[models.Shop](ctx, c, EntityShop, sortKey, limit)
}

func (c *Client) ListInspections(ctx context.Context, sortKey string, limit int) ([]models.Inspection, error) {
	return List[models.Inspection](ctx, c, EntityInspection, sortKey, limit)
}

func (c *Client) FilterAttendance(ctx context.Context, predicate map[string]any) ([]models.Attendance, error) {
	return Filter[models.Attendance](ctx, c, EntityAttendance, predicate)
}

func (c *Client) GetShop(ctx context.Context, id string) (models.Shop, error) {
	return Get[models.Shop](ctx, c, EntityShop, id)
}
