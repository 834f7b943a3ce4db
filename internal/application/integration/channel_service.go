package integration

import (
	"context"
	"errors"

	"github.com/erp/sale-ebay/internal/domain/channel"
	"github.com/erp/sale-ebay/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ChannelService manages eBay channels, their exceptions and imported sales
type ChannelService struct {
	uow    UnitOfWork
	logger *zap.Logger
}

// NewChannelService creates a ChannelService
func NewChannelService(uow UnitOfWork, log *zap.Logger) *ChannelService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ChannelService{uow: uow, logger: log.Named("channel_service")}
}

// CreateEbayChannel registers an eBay account as a channel
func (s *ChannelService) CreateEbayChannel(ctx context.Context, req CreateEbayChannelRequest) (*ChannelResponse, error) {
	var resp ChannelResponse
	err := RunInTransaction(ctx, s.uow, func(repos Repositories) error {
		if _, err := repos.Channels().FindByCode(ctx, req.Code); err == nil {
			return shared.NewDomainError(shared.ErrAlreadyExists.Code, "Channel code already in use")
		} else if !errors.Is(err, shared.ErrNotFound) {
			return err
		}

		ch, err := channel.NewEbayChannel(req.Name, req.Code, channel.EbayCredentials{
			AppID:     req.AppID,
			DevID:     req.DevID,
			CertID:    req.CertID,
			AuthToken: req.AuthToken,
			SiteID:    req.SiteID,
			Sandbox:   req.Sandbox,
		})
		if err != nil {
			return err
		}
		if err := repos.Channels().Save(ctx, ch); err != nil {
			return err
		}
		resp = ToChannelResponse(ch)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("eBay channel created", zap.String("channel_id", resp.ID.String()), zap.String("code", resp.Code))
	return &resp, nil
}

// GetChannel returns a channel by ID
func (s *ChannelService) GetChannel(ctx context.Context, id uuid.UUID) (*ChannelResponse, error) {
	var resp ChannelResponse
	err := RunInTransaction(ctx, s.uow, func(repos Repositories) error {
		ch, err := repos.Channels().FindByID(ctx, id)
		if err != nil {
			return err
		}
		resp = ToChannelResponse(ch)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetSaleByEbayOrderID returns the sale imported for an eBay order
func (s *ChannelService) GetSaleByEbayOrderID(ctx context.Context, orderID string) (*SaleResponse, error) {
	var resp SaleResponse
	err := RunInTransaction(ctx, s.uow, func(repos Repositories) error {
		sl, err := repos.Sales().FindByEbayOrderID(ctx, orderID)
		if err != nil {
			return err
		}
		resp = ToSaleResponse(sl)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListExceptions lists a channel's exceptions. A nil resolved lists all of them.
func (s *ChannelService) ListExceptions(ctx context.Context, channelID uuid.UUID, resolved *bool) ([]ExceptionResponse, error) {
	var out []ExceptionResponse
	err := RunInTransaction(ctx, s.uow, func(repos Repositories) error {
		if _, err := repos.Channels().FindByID(ctx, channelID); err != nil {
			return err
		}
		found, err := repos.Exceptions().FindByChannel(ctx, channelID, resolved)
		if err != nil {
			return err
		}
		out = make([]ExceptionResponse, 0, len(found))
		for i := range found {
			out = append(out, ToExceptionResponse(&found[i]))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ResolveException marks an exception as handled
func (s *ChannelService) ResolveException(ctx context.Context, id uuid.UUID) (*ExceptionResponse, error) {
	var resp ExceptionResponse
	err := RunInTransaction(ctx, s.uow, func(repos Repositories) error {
		exc, err := repos.Exceptions().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := exc.Resolve(); err != nil {
			return err
		}
		if err := repos.Exceptions().Save(ctx, exc); err != nil {
			return err
		}
		resp = ToExceptionResponse(exc)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}
