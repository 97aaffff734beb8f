package storage

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"sort"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"

	"jigsaw-bot/internal/domain/entity"
	"jigsaw-bot/internal/domain/port"
	apperrors "jigsaw-bot/internal/errors"
)

// BlobPieceRepository хранит детали в контейнере Azure Blob Storage
// в том же формате, что и FilePieceRepository: <id>.edg и <id>.jpg.
type BlobPieceRepository struct {
	client    *azblob.Client
	container string
}

// NewBlobPieceRepository подключается к аккаунту по общему ключу
func NewBlobPieceRepository(accountName, accountKey, container string) (*BlobPieceRepository, error) {
	if container == "" {
		return nil, apperrors.NewValidationError("blob container name is empty", nil)
	}

	credential, err := azblob.NewSharedKeyCredential(accountName, accountKey)
	if err != nil {
		return nil, fmt.Errorf("azure credential: %w", err)
	}

	client, err := azblob.NewClientWithSharedKeyCredential(
		fmt.Sprintf("https://%s.blob.core.windows.net", accountName),
		credential,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("azure client: %w", err)
	}

	return &BlobPieceRepository{client: client, container: container}, nil
}

// Get скачивает контур и изображение детали
func (r *BlobPieceRepository) Get(ctx context.Context, id string) (*entity.Piece, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}

	edg, err := r.download(ctx, id+edgeExt)
	if bloberror.HasCode(err, bloberror.BlobNotFound) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("piece %s not found", id), err)
	}
	if err != nil {
		return nil, fmt.Errorf("download piece %s: %w", id, err)
	}

	var img image.Image
	data, err := r.download(ctx, id+imageExt)
	switch {
	case err == nil:
		img, _, err = image.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("decode image of piece %s: %w", id, err)
		}
	case !bloberror.HasCode(err, bloberror.BlobNotFound):
		return nil, fmt.Errorf("download image of piece %s: %w", id, err)
	}

	return DecodePiece(bytes.NewReader(edg), id, img)
}

// Save загружает контур и изображение детали
func (r *BlobPieceRepository) Save(ctx context.Context, piece *entity.Piece) error {
	if err := validateID(piece.ID()); err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := EncodePiece(&buf, piece); err != nil {
		return err
	}
	if _, err := r.client.UploadBuffer(ctx, r.container, piece.ID()+edgeExt, buf.Bytes(), nil); err != nil {
		return fmt.Errorf("upload piece %s: %w", piece.ID(), err)
	}

	if img := piece.Image(); img != nil {
		buf.Reset()
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 95}); err != nil {
			return fmt.Errorf("encode image of piece %s: %w", piece.ID(), err)
		}
		if _, err := r.client.UploadBuffer(ctx, r.container, piece.ID()+imageExt, buf.Bytes(), nil); err != nil {
			return fmt.Errorf("upload image of piece %s: %w", piece.ID(), err)
		}
	}
	return nil
}

// List перечисляет блобы .edg в контейнере
func (r *BlobPieceRepository) List(ctx context.Context) ([]string, error) {
	var ids []string
	pager := r.client.NewListBlobsFlatPager(r.container, nil)
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list blobs: %w", err)
		}
		for _, item := range page.Segment.BlobItems {
			if item.Name == nil || !strings.HasSuffix(*item.Name, edgeExt) {
				continue
			}
			ids = append(ids, strings.TrimSuffix(*item.Name, edgeExt))
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (r *BlobPieceRepository) download(ctx context.Context, name string) ([]byte, error) {
	resp, err := r.client.DownloadStream(ctx, r.container, name, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

var _ port.PieceRepository = (*BlobPieceRepository)(nil)
