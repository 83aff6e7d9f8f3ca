package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"skinlib-api/config"
	"skinlib-api/internal/application/ports"
	"skinlib-api/internal/domain/closet"
	"skinlib-api/internal/domain/player"
	"skinlib-api/internal/domain/texture"
	"skinlib-api/internal/domain/user"
	"skinlib-api/internal/infrastructure/mq"
	dto "skinlib-api/internal/interface/api/rest/dto/texture"
	"skinlib-api/pkg/keymutex"
)

// Cascade step names reported in *texture.CascadeError.
const (
	StepCountShared   = "count shared file references"
	StepDeleteBlob    = "delete texture file"
	StepRefundOwner   = "refund uploader"
	StepLoadCloset    = "load closet entries"
	StepRemoveCloset  = "remove closet entry"
	StepRefundCloset  = "refund closet item"
	StepLoadPlayers   = "load players"
	StepClearSlot     = "clear player slot"
	StepAdjustLikes   = "adjust likes"
	StepAdjustScore   = "adjust uploader score"
	StepUpdatePrivacy = "update privacy"
	StepDeleteRecord  = "delete texture record"
)

// TextureService runs the texture lifecycle: upload with deduplication and
// charging, visibility changes and deletion, together with their cascades
// over closets, player slots and the score ledger.
//
// Cascades are not transactional. Every step is safe to repeat (clearing a
// cleared slot or removing a removed entry does nothing), so a failed call
// can be retried; refunds already paid are not paid again because the
// entries they belonged to are gone.
type TextureService struct {
	logger   *zap.Logger
	cfg      config.Skinlib
	calc     Calculator
	upload   *UploadValidator
	textures texture.Repository
	closets  closet.Repository
	players  player.Repository
	ledger   user.Ledger
	blobs    ports.BlobStore
	mq       ports.RabbitMQ
	locks    *keymutex.Map
	mCounter *prometheus.CounterVec
}

func NewTextureService(
	logger *zap.Logger,
	cfg config.Skinlib,
	textureRepository texture.Repository,
	closetRepository closet.Repository,
	playerRepository player.Repository,
	ledger user.Ledger,
	blobs ports.BlobStore,
	mq ports.RabbitMQ,
	mCounter *prometheus.CounterVec,
) ports.TextureService {
	return &TextureService{
		logger:   logger,
		cfg:      cfg,
		calc:     NewCalculator(cfg),
		upload:   NewUploadValidator(blobs, cfg.MaxUploadFileSizeKB),
		textures: textureRepository,
		closets:  closetRepository,
		players:  playerRepository,
		ledger:   ledger,
		blobs:    blobs,
		mq:       mq,
		locks:    keymutex.New(),
		mCounter: mCounter,
	}
}

func tidKey(id texture.ID) string { return "tid:" + strconv.FormatInt(int64(id), 10) }
func hashKey(hash string) string  { return "hash:" + hash }

func (ts *TextureService) ListTextures(
	ctx context.Context,
	actor *user.Actor,
	f texture.Filter,
	sort texture.SortKey,
	page int,
) (*texture.Page, error) {
	if f.Type != "" && f.Type != texture.TypeSkinGroup && !f.Type.Valid() {
		return nil, &texture.ValidationError{Field: "filter", Reason: texture.ReasonIllegalAssetType}
	}
	if sort == "" {
		sort = texture.SortTime
	}
	if !sort.Valid() {
		return nil, &texture.ValidationError{Field: "sort", Reason: texture.ReasonInvalidSort}
	}
	page = texture.NormalizePage(page)

	items, total, err := ts.textures.FetchTextures(ctx, texture.Query{
		Filter:     f,
		Visibility: texture.VisibilityFor(actor),
		Sort:       sort,
		Page:       page,
	})
	if err != nil {
		return nil, err
	}

	return &texture.Page{
		Items:      items,
		Total:      total,
		Page:       page,
		TotalPages: texture.TotalPages(total),
	}, nil
}

func (ts *TextureService) GetTexture(ctx context.Context, actor *user.Actor, id texture.ID) (*texture.Texture, error) {
	t, err := ts.textures.FetchTextureByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, texture.ErrNotFound
	}

	ok, err := ts.blobs.Has(ctx, t.Hash)
	if err != nil {
		return nil, fmt.Errorf("check texture file %s: %w", t.Hash, err)
	}
	if !ok {
		orphan := &texture.OrphanedAssetError{ID: id}
		if ts.cfg.AutoDeleteOrphanedTexture {
			if err = ts.textures.DeleteTexture(ctx, id); err != nil {
				ts.logger.Error("delete orphaned texture", zap.Error(err), zap.Int64("tid", int64(id)))
			} else {
				orphan.Deleted = true
				ts.mCounter.WithLabelValues("texture_orphans_deleted_total").Inc()
			}
		}
		return nil, orphan
	}

	if !t.Public && !actor.CanManage(t.UploaderID) {
		return nil, texture.ErrForbidden
	}

	return t, nil
}

func (ts *TextureService) GetTextureInfo(ctx context.Context, id texture.ID) (*texture.Texture, error) {
	return ts.textures.FetchTextureByID(ctx, id)
}

func (ts *TextureService) UploadTexture(ctx context.Context, actor *user.Actor, in texture.Upload) (*texture.Texture, error) {
	if actor == nil {
		return nil, texture.ErrForbidden
	}

	d, err := ts.upload.Validate(in)
	if err != nil {
		return nil, err
	}

	// the file is stored and referenced under the hash lock, so a delete of
	// the same bytes cannot drop it in between
	unlock := ts.locks.Lock(hashKey(d.Hash))
	defer unlock()

	if _, err = ts.blobs.Put(ctx, in.Data); err != nil {
		return nil, fmt.Errorf("store texture file: %w", err)
	}

	existing, err := ts.textures.FetchTexturesByHash(ctx, d.Hash)
	if err != nil {
		return nil, err
	}
	for _, t := range existing {
		// a private copy may be uploaded again
		if t.Type == d.Type && t.Public {
			ts.mCounter.WithLabelValues("texture_duplicates_total").Inc()
			return nil, &texture.DuplicateAssetError{ID: t.ID}
		}
	}

	cost := ts.calc.UploadCost(d.SizeKB, d.Public)
	if err = ts.ledger.Debit(ctx, actor.ID, cost); err != nil {
		if len(existing) == 0 {
			ts.dropUnusedFile(ctx, d.Hash)
		}
		return nil, err
	}

	t, err := ts.textures.CreateTexture(ctx, *d, actor.ID)
	if err != nil {
		if cerr := ts.ledger.Credit(ctx, actor.ID, cost); cerr != nil {
			ts.logger.Error("return upload cost", zap.Error(cerr), zap.Int64("uid", int64(actor.ID)))
		}
		if len(existing) == 0 {
			ts.dropUnusedFile(ctx, d.Hash)
		}
		return nil, err
	}

	added, err := ts.closets.AddEntry(ctx, actor.ID, t.ID, t.Name)
	if err != nil || !added {
		ts.logger.Warn("add uploaded texture to closet",
			zap.Error(err),
			zap.Int64("tid", int64(t.ID)),
			zap.Int64("uid", int64(actor.ID)),
		)
	}

	ts.publish(ctx, mq.ActionUploaded, actor, t)
	ts.mCounter.WithLabelValues("texture_uploaded_total").Inc()

	return t, nil
}

// dropUnusedFile removes a file no record references. The caller holds the
// hash lock.
func (ts *TextureService) dropUnusedFile(ctx context.Context, hash string) {
	if err := ts.blobs.Delete(ctx, hash); err != nil {
		ts.logger.Warn("drop unused texture file", zap.Error(err), zap.String("hash", hash))
	}
}

func (ts *TextureService) RenameTexture(
	ctx context.Context,
	actor *user.Actor,
	id texture.ID,
	name string,
) (*texture.Texture, error) {
	name = NormalizeTextureName(name)
	if !ValidTextureName(name) {
		return nil, &texture.ValidationError{Field: "new_name", Reason: texture.ReasonInvalidName}
	}

	unlock := ts.locks.Lock(tidKey(id))
	defer unlock()

	if _, err := ts.authorize(ctx, actor, id); err != nil {
		return nil, err
	}

	t, err := ts.textures.RenameTexture(ctx, id, name)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, texture.ErrNotFound
	}

	ts.publish(ctx, mq.ActionRenamed, actor, t)
	ts.mCounter.WithLabelValues("texture_renamed_total").Inc()

	return t, nil
}

// DeleteTexture stops at the first failing step and reports it.
func (ts *TextureService) DeleteTexture(ctx context.Context, actor *user.Actor, id texture.ID) error {
	unlock := ts.locks.Lock(tidKey(id))
	defer unlock()

	t, err := ts.authorize(ctx, actor, id)
	if err != nil {
		return err
	}

	unlockHash := ts.locks.Lock(hashKey(t.Hash))
	defer unlockHash()

	shared, err := ts.textures.FetchTexturesByHash(ctx, t.Hash)
	if err != nil {
		return ts.cascadeErr(id, StepCountShared, err)
	}
	if len(shared) <= 1 {
		if err = ts.blobs.Delete(ctx, t.Hash); err != nil {
			return ts.cascadeErr(id, StepDeleteBlob, err)
		}
	}

	if ts.cfg.RefundOnDelete {
		if err = ts.ledger.Credit(ctx, t.UploaderID, ts.calc.RefundOnDelete(t.SizeKB, t.Public)); err != nil {
			return ts.cascadeErr(id, StepRefundOwner, err)
		}
		// private textures are never shared into other closets
		if t.Public {
			if err = ts.removeClosetEntries(ctx, t, nil, true); err != nil {
				return err
			}
		}
	}

	if err = ts.detach(ctx, t); err != nil {
		return err
	}

	if err = ts.textures.DeleteTexture(ctx, id); err != nil {
		return ts.cascadeErr(id, StepDeleteRecord, err)
	}

	ts.publish(ctx, mq.ActionDeleted, actor, t)
	ts.mCounter.WithLabelValues("texture_deleted_total").Inc()

	return nil
}

func (ts *TextureService) TogglePrivacy(ctx context.Context, actor *user.Actor, id texture.ID) (bool, error) {
	return ts.changePrivacy(ctx, actor, id, func(public bool) bool { return !public })
}

// SetPrivacy leaves a public texture that is asked to stay public untouched.
// Asking a private texture to stay private only sweeps away references held
// by anyone but the uploader, which finishes a change that failed halfway.
func (ts *TextureService) SetPrivacy(ctx context.Context, actor *user.Actor, id texture.ID, public bool) (bool, error) {
	return ts.changePrivacy(ctx, actor, id, func(bool) bool { return public })
}

// changePrivacy clears every other user's slot and closet entry for the
// texture, then adjusts the uploader's score and flips the visibility. A
// failing slot or entry does not stop the rest; the failures are reported
// together. The visibility only changes once the score adjustment succeeded.
func (ts *TextureService) changePrivacy(
	ctx context.Context,
	actor *user.Actor,
	id texture.ID,
	next func(public bool) bool,
) (bool, error) {
	unlock := ts.locks.Lock(tidKey(id))
	defer unlock()

	t, err := ts.authorize(ctx, actor, id)
	if err != nil {
		return false, err
	}

	public := next(t.Public)
	if public == t.Public {
		if public {
			return true, nil
		}
		return false, errors.Join(ts.revokeShared(ctx, t, t.UploaderID)...)
	}

	errs := ts.revokeShared(ctx, t, actor.ID)

	charge := ts.calc.PrivacyToggleDelta(t.SizeKB, t.Public)
	var scoreErr error
	switch {
	case charge > 0:
		scoreErr = ts.ledger.Debit(ctx, t.UploaderID, charge)
	case charge < 0:
		scoreErr = ts.ledger.Credit(ctx, t.UploaderID, -charge)
	}
	if scoreErr != nil {
		errs = append(errs, ts.cascadeErr(id, StepAdjustScore, scoreErr))
		return t.Public, errors.Join(errs...)
	}

	updated, err := ts.textures.UpdatePrivacy(ctx, id, public)
	if err != nil {
		errs = append(errs, ts.cascadeErr(id, StepUpdatePrivacy, err))
		return t.Public, errors.Join(errs...)
	}
	if updated == nil {
		errs = append(errs, texture.ErrNotFound)
		return t.Public, errors.Join(errs...)
	}

	ts.publish(ctx, mq.ActionPrivacy, actor, updated)
	ts.mCounter.WithLabelValues("texture_privacy_changed_total").Inc()

	return updated.Public, errors.Join(errs...)
}

// revokeShared clears the slots and closet entries of t held by anyone but
// keep, refunding closet fees when refunds are on. Every slot and entry is
// attempted.
func (ts *TextureService) revokeShared(ctx context.Context, t *texture.Texture, keep user.ID) []error {
	var errs []error

	players, err := ts.players.FetchPlayersBySlot(ctx, t.Type, t.ID)
	if err != nil {
		errs = append(errs, ts.cascadeErr(t.ID, StepLoadPlayers, err))
	}
	for _, p := range players {
		if p.OwnerID == keep {
			continue
		}
		if err = ts.players.ClearSlot(ctx, p.ID, t.Type, t.ID); err != nil {
			errs = append(errs, ts.cascadeErr(t.ID, StepClearSlot, err))
		}
	}

	if err = ts.removeClosetEntries(ctx, t, &keep, ts.cfg.RefundOnDelete); err != nil {
		errs = append(errs, err)
	}

	return errs
}

// removeClosetEntries drops every closet entry of t except the one owned by
// keep, refunding the per-item fee when refund is set. All entries are
// attempted; failures are joined.
func (ts *TextureService) removeClosetEntries(ctx context.Context, t *texture.Texture, keep *user.ID, refund bool) error {
	entries, err := ts.closets.FetchEntriesByTexture(ctx, t.ID)
	if err != nil {
		return ts.cascadeErr(t.ID, StepLoadCloset, err)
	}

	var (
		errs    []error
		removed int64
	)
	for _, e := range entries {
		if keep != nil && e.UserID == *keep {
			continue
		}
		if err = ts.closets.RemoveEntry(ctx, e.UserID, t.ID); err != nil {
			errs = append(errs, ts.cascadeErr(t.ID, StepRemoveCloset, err))
			continue
		}
		removed++
		if refund {
			if err = ts.ledger.Credit(ctx, e.UserID, ts.calc.ClosetItemFee()); err != nil {
				errs = append(errs, ts.cascadeErr(t.ID, StepRefundCloset, err))
			}
		}
	}

	if removed > 0 && keep != nil {
		if err = ts.textures.AdjustLikes(ctx, t.ID, -removed); err != nil {
			errs = append(errs, ts.cascadeErr(t.ID, StepAdjustLikes, err))
		}
	}

	return errors.Join(errs...)
}

// detach clears whatever still points at a texture about to be deleted:
// every player slot, and closet entries not already refunded.
func (ts *TextureService) detach(ctx context.Context, t *texture.Texture) error {
	players, err := ts.players.FetchPlayersBySlot(ctx, t.Type, t.ID)
	if err != nil {
		return ts.cascadeErr(t.ID, StepLoadPlayers, err)
	}
	for _, p := range players {
		if err = ts.players.ClearSlot(ctx, p.ID, t.Type, t.ID); err != nil {
			return ts.cascadeErr(t.ID, StepClearSlot, err)
		}
	}

	return ts.removeClosetEntries(ctx, t, nil, false)
}

// authorize loads a texture the actor may manage.
func (ts *TextureService) authorize(ctx context.Context, actor *user.Actor, id texture.ID) (*texture.Texture, error) {
	t, err := ts.textures.FetchTextureByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, texture.ErrNotFound
	}
	if !actor.CanManage(t.UploaderID) {
		return nil, texture.ErrForbidden
	}

	return t, nil
}

func (ts *TextureService) cascadeErr(id texture.ID, step string, err error) error {
	ts.logger.Error("texture cascade step failed",
		zap.Error(err),
		zap.Int64("tid", int64(id)),
		zap.String("step", step),
	)
	ts.mCounter.WithLabelValues("texture_cascade_failures_total").Inc()

	return &texture.CascadeError{ID: id, Step: step, Err: err}
}

func (ts *TextureService) publish(ctx context.Context, action string, actor *user.Actor, t *texture.Texture) {
	e := mq.NewEvent(action, int64(actor.ID), dto.ToResponseTexture(*t))
	select {
	case ts.mq.GetInputChan() <- e:
	case <-ctx.Done():
	}
}
