package crudsvc

import (
	"strconv"
	"strings"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-crud"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-fieldlog/activity"
	"github.com/goliatone/go-fieldlog/command"
	"github.com/goliatone/go-fieldlog/crudguard"
	"github.com/goliatone/go-fieldlog/pkg/types"
	"github.com/goliatone/go-fieldlog/query"
	repository "github.com/goliatone/go-repository-bun"
)

// ActivityServiceConfig wires dependencies for the CRUD-backed activity service.
type ActivityServiceConfig struct {
	Guard       GuardAdapter
	CreateCmd   gocommand.Commander[command.ActivityCreateInput]
	UpdateCmd   gocommand.Commander[command.ActivityUpdateInput]
	DeleteCmd   gocommand.Commander[command.ActivityDeleteInput]
	FeedQuery   gocommand.Querier[types.ActivityFilter, types.ActivityPage]
	DetailQuery gocommand.Querier[query.ActivityDetailInput, *types.ActivityRecord]
	StatsQuery  gocommand.Querier[types.StatisticsFilter, types.Statistics]
}

// ActivityService adapts the go-fieldlog activity command/query layer
// to a go-crud controller. Visibility scoping happens in the query
// layer; the service only parses transport input and runs the guard.
//
// Activity rows carry store-assigned int64 ids, and go-repository-bun's
// generic ModelHandlers are uuid-keyed, so crud.NewController cannot be
// fed an activity repository directly. Hosts that want the controller
// surface wrap this service with crud.WithService and supply their own
// resource handlers that parse the :id segment as an integer; hosts
// that only need the routes can call the service methods from plain
// go-router handlers instead, which is what examples/web does. The
// Statistics method is the extension beyond the standard CRUD verbs
// and maps to a GET route of its own.
type ActivityService struct {
	guard  GuardAdapter
	create gocommand.Commander[command.ActivityCreateInput]
	update gocommand.Commander[command.ActivityUpdateInput]
	del    gocommand.Commander[command.ActivityDeleteInput]
	feed   gocommand.Querier[types.ActivityFilter, types.ActivityPage]
	detail gocommand.Querier[query.ActivityDetailInput, *types.ActivityRecord]
	stats  gocommand.Querier[types.StatisticsFilter, types.Statistics]
	logger types.Logger
}

// NewActivityService constructs the adapter.
func NewActivityService(cfg ActivityServiceConfig, opts ...ServiceOption) *ActivityService {
	options := applyOptions(opts)
	return &ActivityService{
		guard:  cfg.Guard,
		create: cfg.CreateCmd,
		update: cfg.UpdateCmd,
		del:    cfg.DeleteCmd,
		feed:   cfg.FeedQuery,
		detail: cfg.DetailQuery,
		stats:  cfg.StatsQuery,
		logger: options.logger,
	}
}

func (s *ActivityService) Create(ctx crud.Context, record *activity.Entry) (*activity.Entry, error) {
	if s.create == nil {
		return nil, goerrors.New("activity create command not wired", goerrors.CategoryInternal).WithCode(goerrors.CodeInternal)
	}
	payload := activity.ToActivityRecord(record)
	res, err := s.guard.Enforce(crudguard.GuardInput{
		Context:     ctx,
		Operation:   crud.OpCreate,
		TargetOwner: payload.OwnerID,
	})
	if err != nil {
		return nil, err
	}

	var result types.ActivityRecord
	input := command.ActivityCreateInput{
		Requester: res.Requester,
		Activity: types.ActivityInput{
			Type:           payload.Type,
			Description:    payload.Description,
			Date:           payload.Date,
			Municipalities: payload.Municipalities,
		},
		Result: &result,
	}
	if err := s.create.Execute(ctx.UserContext(), input); err != nil {
		return nil, err
	}
	return activity.FromActivityRecord(result), nil
}

func (s *ActivityService) CreateBatch(ctx crud.Context, records []*activity.Entry) ([]*activity.Entry, error) {
	created := make([]*activity.Entry, 0, len(records))
	for _, record := range records {
		rec, err := s.Create(ctx, record)
		if err != nil {
			return nil, err
		}
		created = append(created, rec)
	}
	return created, nil
}

func (s *ActivityService) Update(ctx crud.Context, record *activity.Entry) (*activity.Entry, error) {
	if s.update == nil {
		return nil, goerrors.New("activity update command not wired", goerrors.CategoryInternal).WithCode(goerrors.CodeInternal)
	}
	payload := activity.ToActivityRecord(record)
	if payload.ID == 0 {
		return nil, command.ErrActivityIDRequired
	}
	res, err := s.guard.Enforce(crudguard.GuardInput{
		Context:   ctx,
		Operation: crud.OpUpdate,
	})
	if err != nil {
		return nil, err
	}

	var result types.ActivityRecord
	input := command.ActivityUpdateInput{
		Requester: res.Requester,
		ID:        payload.ID,
		Patch:     patchFromRecord(payload),
		Result:    &result,
	}
	if err := s.update.Execute(ctx.UserContext(), input); err != nil {
		return nil, err
	}
	return activity.FromActivityRecord(result), nil
}

func (s *ActivityService) UpdateBatch(ctx crud.Context, records []*activity.Entry) ([]*activity.Entry, error) {
	updated := make([]*activity.Entry, 0, len(records))
	for _, record := range records {
		rec, err := s.Update(ctx, record)
		if err != nil {
			return nil, err
		}
		updated = append(updated, rec)
	}
	return updated, nil
}

func (s *ActivityService) Delete(ctx crud.Context, record *activity.Entry) error {
	if s.del == nil {
		return goerrors.New("activity delete command not wired", goerrors.CategoryInternal).WithCode(goerrors.CodeInternal)
	}
	payload := activity.ToActivityRecord(record)
	if payload.ID == 0 {
		return command.ErrActivityIDRequired
	}
	res, err := s.guard.Enforce(crudguard.GuardInput{
		Context:   ctx,
		Operation: crud.OpDelete,
	})
	if err != nil {
		return err
	}
	return s.del.Execute(ctx.UserContext(), command.ActivityDeleteInput{
		Requester: res.Requester,
		ID:        payload.ID,
	})
}

func (s *ActivityService) DeleteBatch(ctx crud.Context, records []*activity.Entry) error {
	for _, record := range records {
		if err := s.Delete(ctx, record); err != nil {
			return err
		}
	}
	return nil
}

func (s *ActivityService) Index(ctx crud.Context, _ []repository.SelectCriteria) ([]*activity.Entry, int, error) {
	if s.feed == nil {
		return nil, 0, goerrors.New("activity feed query unavailable", goerrors.CategoryInternal).WithCode(goerrors.CodeInternal)
	}
	res, err := s.guard.Enforce(crudguard.GuardInput{
		Context:   ctx,
		Operation: crud.OpList,
	})
	if err != nil {
		return nil, 0, err
	}

	filter := types.ActivityFilter{
		Requester: res.Requester,
		OwnerID:   queryUUID(ctx, "userId"),
		Types:     queryActivityTypes(ctx, "type"),
		Since:     queryDate(ctx, "startDate"),
		Until:     queryEndDate(ctx, "endDate"),
		Keyword:   strings.TrimSpace(ctx.Query("q")),
		Pagination: types.Pagination{
			Limit:  queryInt(ctx, "limit", 50),
			Offset: queryInt(ctx, "offset", 0),
		},
	}
	page, err := s.feed.Query(ctx.UserContext(), filter)
	if err != nil {
		return nil, 0, err
	}
	entries := make([]*activity.Entry, 0, len(page.Records))
	for _, record := range page.Records {
		entries = append(entries, activity.FromActivityRecord(record))
	}
	return entries, page.Total, nil
}

func (s *ActivityService) Show(ctx crud.Context, id string, _ []repository.SelectCriteria) (*activity.Entry, error) {
	if s.detail == nil {
		return nil, goerrors.New("activity detail query unavailable", goerrors.CategoryInternal).WithCode(goerrors.CodeInternal)
	}
	recordID, err := strconv.ParseInt(strings.TrimSpace(id), 10, 64)
	if err != nil {
		return nil, goerrors.New("go-fieldlog: activity id must be numeric", goerrors.CategoryValidation).
			WithCode(goerrors.CodeBadRequest)
	}
	res, err := s.guard.Enforce(crudguard.GuardInput{
		Context:   ctx,
		Operation: crud.OpRead,
	})
	if err != nil {
		return nil, err
	}
	record, err := s.detail.Query(ctx.UserContext(), query.ActivityDetailInput{
		Requester: res.Requester,
		ID:        recordID,
	})
	if err != nil {
		return nil, err
	}
	return activity.FromActivityRecord(*record), nil
}

// Statistics computes the aggregate reporting payload for the
// requester's visible records. It accepts the same type and date
// filters as Index.
func (s *ActivityService) Statistics(ctx crud.Context) (types.Statistics, error) {
	if s.stats == nil {
		return types.Statistics{}, goerrors.New("activity stats query unavailable", goerrors.CategoryInternal).WithCode(goerrors.CodeInternal)
	}
	res, err := s.guard.Enforce(crudguard.GuardInput{
		Context:   ctx,
		Operation: crud.OpList,
	})
	if err != nil {
		return types.Statistics{}, err
	}
	filter := types.StatisticsFilter{
		Requester: res.Requester,
		OwnerID:   queryUUID(ctx, "userId"),
		Types:     queryActivityTypes(ctx, "type"),
		Since:     queryDate(ctx, "startDate"),
		Until:     queryEndDate(ctx, "endDate"),
	}
	return s.stats.Query(ctx.UserContext(), filter)
}

func patchFromRecord(record types.ActivityRecord) types.ActivityPatch {
	patch := types.ActivityPatch{
		Municipalities: record.Municipalities,
	}
	if record.Type != "" {
		kind := record.Type
		patch.Type = &kind
	}
	if record.Description != "" {
		desc := record.Description
		patch.Description = &desc
	}
	if !record.Date.IsZero() {
		date := record.Date
		patch.Date = &date
	}
	return patch
}
