package services

import (
	"bytes"
	"context"
	"strings"

	"kaskita/internal/attachment"
	"kaskita/internal/config"
	apperrors "kaskita/internal/errors"
	"kaskita/internal/ledger"
	"kaskita/internal/models"
	"kaskita/internal/snapshot"
	"kaskita/internal/views"
)

type transactionService struct {
	l      *Ledger
	period PeriodServicer
	queue  PendingImageQueue
}

// NewTransactionService creates a new TransactionServicer. queue may be nil,
// in which case failed uploads are reported but not retried.
func NewTransactionService(l *Ledger, periods PeriodServicer, queue PendingImageQueue) TransactionServicer {
	return &transactionService{l: l, period: periods, queue: queue}
}

func (s *transactionService) ListTransactions(ctx context.Context, refresh bool) ([]models.Transaction, error) {
	p, err := s.period.Current(ctx)
	if err != nil {
		return nil, err
	}
	return fetchPeriod(ctx, s.l, snapshot.KeyTransactions, p, refresh, apperrors.ErrFetchTransactions, s.l.backend.ListTransactions)
}

func (s *transactionService) Daily(ctx context.Context, refresh bool) (*views.DailyView, error) {
	txs, err := s.ListTransactions(ctx, refresh)
	if err != nil {
		return nil, err
	}
	v := views.Daily(txs, s.l.opts.Location)
	return &v, nil
}

func (s *transactionService) GetTransaction(ctx context.Context, id models.ID) (*models.Transaction, error) {
	txs, err := s.ListTransactions(ctx, false)
	if err != nil {
		return nil, err
	}
	for i := range txs {
		if txs[i].ID == id {
			tx := txs[i]
			return &tx, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

// CreateTransaction validates draft, submits it and then uploads img keyed
// by the new id. A draft that fails validation never reaches the backend.
func (s *transactionService) CreateTransaction(ctx context.Context, draft ledger.Draft, img *ImageUpload) (*TransactionResult, error) {
	draft.ID = ""
	entry, err := draft.Build(s.l.opts.Location)
	if err != nil {
		return nil, err
	}
	prepared, err := s.prepareImage(img)
	if err != nil {
		return nil, err
	}

	tx, err := s.l.backend.CreateTransaction(ctx, ledger.Encode(entry))
	if err != nil {
		return nil, s.l.backendError(apperrors.ErrCreateTransaction, err)
	}
	s.l.log.Infow("transaction created", "id", tx.ID, "type", tx.Type)

	snapshot.Update(ctx, s.l.store, snapshot.KeyTransactions, func(txs []models.Transaction) []models.Transaction {
		return append([]models.Transaction{*tx}, txs...)
	})
	s.l.invalidateDerived(ctx)

	status, err := s.attach(ctx, tx, prepared, func(ctx context.Context) error {
		if err := s.l.backend.DeleteTransaction(ctx, tx.ID); err != nil {
			return err
		}
		s.removeFromList(ctx, tx.ID)
		s.l.invalidateDerived(ctx)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &TransactionResult{Transaction: *tx, ImageStatus: status, Effects: entry.Effects()}, nil
}

// UpdateTransaction edits a saved transaction. The type of a saved entry is
// fixed. A replaced remote image is deleted by path once its successor is
// uploaded or queued; a removed one right after the edit is accepted.
func (s *transactionService) UpdateTransaction(ctx context.Context, id models.ID, req EditRequest) (*TransactionResult, error) {
	existing, err := s.GetTransaction(ctx, id)
	if err != nil {
		return nil, err
	}

	draft := req.Draft
	draft.ID = id
	entry, err := draft.Build(s.l.opts.Location)
	if err != nil {
		return nil, err
	}
	if err := ledger.CheckTypeChange(existing.Type, entry); err != nil {
		return nil, err
	}
	prepared, err := s.prepareImage(req.Image)
	if err != nil {
		return nil, err
	}

	tx, err := s.l.backend.UpdateTransaction(ctx, id, ledger.Encode(entry))
	if err != nil {
		return nil, s.l.backendError(apperrors.ErrUpdateTransaction, err)
	}
	s.l.log.Infow("transaction updated", "id", id, "type", tx.Type)

	status := ImageNone
	switch {
	case prepared != nil:
		s.dropPending(ctx, id)
		status, err = s.attach(ctx, tx, prepared, s.restoreRecord(*existing))
		if err != nil {
			s.l.store.Invalidate(ctx, snapshot.KeyTransactions)
			s.l.invalidateDerived(ctx)
			return nil, err
		}
		if len(existing.Image) > 0 {
			s.deleteRemoteImage(ctx, existing.Image[0].Path)
		}
	case req.RemoveImage:
		if len(existing.Image) > 0 {
			s.deleteRemoteImage(ctx, existing.Image[0].Path)
		}
		s.dropPending(ctx, id)
		tx.Image = nil
		status = ImageRemoved
	default:
		if len(tx.Image) == 0 {
			tx.Image = existing.Image
		}
	}

	s.l.store.Invalidate(ctx, snapshot.KeyTransactions)
	s.l.invalidateDerived(ctx)
	return &TransactionResult{Transaction: *tx, ImageStatus: status, Effects: entry.Effects()}, nil
}

// EditDraft returns a saved transaction as form input for editing.
func (s *transactionService) EditDraft(ctx context.Context, id models.ID) (*ledger.Draft, error) {
	tx, err := s.GetTransaction(ctx, id)
	if err != nil {
		return nil, err
	}
	d, err := ledger.EditDraft(*tx, s.l.opts.Location)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *transactionService) DeleteTransaction(ctx context.Context, id models.ID) error {
	if err := s.l.backend.DeleteTransaction(ctx, id); err != nil {
		return s.l.backendError(apperrors.ErrDeleteTransaction, err)
	}
	s.removeFromList(ctx, id)
	s.dropPending(ctx, id)
	s.l.invalidateDerived(ctx)
	return nil
}

func (s *transactionService) CreateByVoice(ctx context.Context, filename, contentType string, audio []byte) (*models.Transaction, error) {
	if len(audio) == 0 {
		return nil, apperrors.WithMessage(apperrors.ErrMissingField, "Rekaman suara kosong")
	}
	if filename = strings.TrimSpace(filename); filename == "" {
		filename = "voice.m4a"
	}
	tx, err := s.l.backend.CreateByVoice(ctx, filename, contentType, audio)
	if err != nil {
		return nil, s.l.backendError(apperrors.ErrVoiceTransaction, err)
	}
	s.l.store.Invalidate(ctx, snapshot.KeyTransactions)
	s.l.invalidateDerived(ctx)
	return tx, nil
}

// RetryPendingImages uploads every queued attachment once. Successful
// uploads leave the queue; failures stay with their attempt count bumped.
func (s *transactionService) RetryPendingImages(ctx context.Context) (*RetryReport, error) {
	report := &RetryReport{}
	if s.queue == nil {
		return report, nil
	}
	pending, err := s.queue.PendingImages(ctx)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	for _, p := range pending {
		data, err := p.Bytes()
		if err != nil {
			s.l.log.Errorw("dropping unreadable pending image", "id", p.ID, "error", err)
			if derr := s.queue.DeletePendingImage(ctx, p.ID); derr != nil {
				s.l.log.Warnw("failed to drop pending image", "id", p.ID, "error", derr)
			}
			report.Failed++
			continue
		}

		if _, err := s.l.backend.UploadImage(ctx, p.Table, models.ID(p.TransactionID), p.Filename, data); err != nil {
			report.Failed++
			if merr := s.queue.MarkPendingImageFailed(ctx, p.ID, err); merr != nil {
				s.l.log.Warnw("failed to record upload attempt", "id", p.ID, "error", merr)
			}
			if isAuthError(err) {
				return report, err
			}
			continue
		}
		if err := s.queue.DeletePendingImage(ctx, p.ID); err != nil {
			s.l.log.Warnw("uploaded image left in queue", "id", p.ID, "error", err)
		}
		report.Uploaded++
	}

	if report.Uploaded > 0 {
		s.l.store.Invalidate(ctx, snapshot.KeyTransactions)
	}
	s.l.log.Infow("pending image retry finished", "uploaded", report.Uploaded, "failed", report.Failed)
	return report, nil
}

// restoreRecord returns the undo of an edit under the rollback policy:
// resubmitting the record as it was. It returns nil when the record cannot be
// rebuilt exactly, such as a SAVING movement whose direction the backend did
// not echo, so the failed image is queued instead.
func (s *transactionService) restoreRecord(previous models.Transaction) func(context.Context) error {
	if s.l.opts.ImagePolicy != config.ImagePolicyRollback {
		return nil
	}
	entry, err := ledger.FromRecord(previous, s.l.opts.Location)
	if err != nil {
		s.l.log.Warnw("previous transaction cannot be rebuilt", "id", previous.ID, "error", err)
		return nil
	}
	form := ledger.Encode(entry)
	return func(ctx context.Context) error {
		_, err := s.l.backend.UpdateTransaction(ctx, previous.ID, form)
		return err
	}
}

// attach uploads prepared for tx. On failure the configured policy either
// queues the image or runs undo and reports ErrImageUpload. A nil undo
// always queues.
func (s *transactionService) attach(ctx context.Context, tx *models.Transaction, prepared *attachment.Image, undo func(context.Context) error) (ImageStatus, error) {
	if prepared == nil {
		return ImageNone, nil
	}

	img, err := s.l.backend.UploadImage(ctx, attachment.TableTransactions, tx.ID, prepared.Filename, prepared.Data)
	if err == nil {
		tx.Image = []models.Image{*img}
		s.replaceInList(ctx, *tx)
		return ImageUploaded, nil
	}
	s.l.log.Warnw("image upload failed", "transaction_id", tx.ID, "policy", s.l.opts.ImagePolicy, "error", err)

	if s.l.opts.ImagePolicy == config.ImagePolicyRollback && undo != nil {
		if uerr := undo(ctx); uerr != nil {
			s.l.log.Errorw("rollback after failed upload did not complete", "transaction_id", tx.ID, "error", uerr)
		}
		return "", apperrors.Wrap(apperrors.ErrImageUpload, err)
	}

	if s.queue == nil {
		return ImageFailed, nil
	}
	if _, qerr := s.queue.AddPendingImage(ctx, tx.ID.String(), attachment.TableTransactions, prepared.Filename, prepared.Data); qerr != nil {
		s.l.log.Errorw("failed to queue image", "transaction_id", tx.ID, "error", qerr)
		return ImageFailed, nil
	}
	return ImagePending, nil
}

func (s *transactionService) prepareImage(img *ImageUpload) (*attachment.Image, error) {
	if img == nil || len(img.Data) == 0 {
		return nil, nil
	}
	prepared, err := attachment.Prepare(bytes.NewReader(img.Data), img.Filename, s.l.opts.ImageMaxDimension, s.l.opts.ImageJPEGQuality)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.WithMessage(apperrors.ErrInvalidInput, "Gambar tidak dapat dibaca"), err)
	}
	return prepared, nil
}

// deleteRemoteImage is best effort; an orphaned remote file is logged.
func (s *transactionService) deleteRemoteImage(ctx context.Context, path string) {
	prefix := s.l.opts.ImageSourcePrefix
	display := attachment.DisplayPath(path, prefix)
	if !attachment.IsRemote(display, prefix) {
		return
	}
	if err := s.l.backend.DeleteImage(ctx, attachment.RemotePath(display, prefix)); err != nil {
		s.l.log.Warnw("failed to delete replaced image", "path", path, "error", err)
	}
}

func (s *transactionService) dropPending(ctx context.Context, id models.ID) {
	if s.queue == nil {
		return
	}
	if err := s.queue.DeletePendingImagesFor(ctx, id.String()); err != nil {
		s.l.log.Warnw("failed to drop queued images", "transaction_id", id, "error", err)
	}
}

func (s *transactionService) replaceInList(ctx context.Context, tx models.Transaction) {
	snapshot.Update(ctx, s.l.store, snapshot.KeyTransactions, func(txs []models.Transaction) []models.Transaction {
		out := make([]models.Transaction, len(txs))
		for i := range txs {
			out[i] = txs[i]
			if txs[i].ID == tx.ID {
				out[i] = tx
			}
		}
		return out
	})
}

func (s *transactionService) removeFromList(ctx context.Context, id models.ID) {
	snapshot.Update(ctx, s.l.store, snapshot.KeyTransactions, func(txs []models.Transaction) []models.Transaction {
		out := make([]models.Transaction, 0, len(txs))
		for _, tx := range txs {
			if tx.ID != id {
				out = append(out, tx)
			}
		}
		return out
	})
}
