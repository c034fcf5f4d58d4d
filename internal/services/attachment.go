package services

import (
	"context"
	"io"
	"path/filepath"

	"go.uber.org/zap"

	"fixtrack/internal/authz"
	"fixtrack/internal/dto"
	"fixtrack/internal/entities"
	"fixtrack/internal/repositories"
	"fixtrack/pkg/config"
	"fixtrack/pkg/constants"
	apperrors "fixtrack/pkg/errors"
	"fixtrack/pkg/filestorage"
	"fixtrack/pkg/validation"
)

// UploadedFile загруженный файл вместе с метаданными из multipart-формы.
type UploadedFile struct {
	Content io.ReadSeeker
	Name    string
	Size    int64
}

type AttachmentServiceInterface interface {
	Add(ctx context.Context, orderID uint64, file UploadedFile) (*dto.AttachmentDTO, error)
}

type AttachmentService struct {
	*BaseService
	orderRepo      repositories.OrderRepositoryInterface
	attachmentRepo repositories.AttachmentRepositoryInterface
	fileStorage    filestorage.FileStorageInterface
	rules          config.UploadConfig
}

func NewAttachmentService(
	orderRepo repositories.OrderRepositoryInterface,
	attachmentRepo repositories.AttachmentRepositoryInterface,
	fileStorage filestorage.FileStorageInterface,
	rules config.UploadConfig,
	logger *zap.Logger,
) AttachmentServiceInterface {
	return &AttachmentService{
		BaseService:    NewBaseService(nil, logger),
		orderRepo:      orderRepo,
		attachmentRepo: attachmentRepo,
		fileStorage:    fileStorage,
		rules:          rules,
	}
}

// Add прикрепляет файл к заявке. Разрешено администратору и назначенному технику.
// Если после сохранения файла что-то пошло не так, файл удаляется.
func (s *AttachmentService) Add(ctx context.Context, orderID uint64, file UploadedFile) (*dto.AttachmentDTO, error) {
	session, err := s.CheckPermission(ctx, authz.AttachmentsCreate)
	if err != nil {
		return nil, err
	}
	if file.Content == nil {
		return nil, apperrors.NewValidationError("Файл не загружен")
	}

	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, mapRepoError(err, orderNotFoundMessage)
	}
	if !session.CanAccessOrder(&order.Order) {
		return nil, apperrors.NewForbiddenError("Нет прав на загрузку файлов к этой заявке")
	}

	mimeType, err := validation.DetectFileType(file.Content, file.Name)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}
	if err := validation.ValidateFile(s.rules, file.Size, mimeType); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	storedPath, err := s.fileStorage.Save(file.Content, file.Name, constants.UploadPrefixOrders)
	if err != nil {
		return nil, apperrors.NewInternalError(err, map[string]interface{}{"orderID": orderID})
	}

	attachment := &entities.Attachment{
		OrderID:      orderID,
		FilePath:     storedPath,
		OriginalName: filepath.Base(file.Name),
		MimeType:     mimeType,
		FileSize:     file.Size,
		UploadedBy:   session.AccountID,
	}
	if err := s.attachmentRepo.CreateInTx(ctx, nil, attachment); err != nil {
		if delErr := s.fileStorage.Delete(storedPath); delErr != nil {
			s.logger.Error("Не удалось удалить файл после ошибки", zap.String("path", storedPath), zap.Error(delErr))
		}
		return nil, apperrors.NewInternalError(err, map[string]interface{}{"orderID": orderID})
	}
	uploader := session.Username
	attachment.UploaderUsername = &uploader

	s.logger.Info("Файл прикреплён к заявке",
		zap.Uint64("orderID", orderID),
		zap.String("path", storedPath),
		zap.Uint64("uploadedBy", session.AccountID),
	)
	return &dto.AttachmentDTO{Attachment: *attachment, URL: s.fileStorage.PublicURL(storedPath)}, nil
}
