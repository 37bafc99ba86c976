package azure

import (
	"context"
	"fmt"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"
	"imageResizer/internal/blobstore"
	"imageResizer/internal/variant"
)

type Storage struct {
	client        *azblob.Client
	container     string
	publicBaseURL string
}

// New connects to the storage account and makes sure the container exists
// with anonymous read access to its blobs.
func New(ctx context.Context, accountName, accountKey, container, publicBaseURL string) (*Storage, error) {
	const op = "blobstore.azure.New"

	credential, err := azblob.NewSharedKeyCredential(accountName, accountKey)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	client, err := azblob.NewClientWithSharedKeyCredential(
		fmt.Sprintf("https://%s.blob.core.windows.net/", accountName),
		credential,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	_, err = client.CreateContainer(ctx, container, &azblob.CreateContainerOptions{
		Access: to.Ptr(azblob.PublicAccessTypeBlob),
	})
	if err != nil && !bloberror.HasCode(err, bloberror.ContainerAlreadyExists) {
		return nil, fmt.Errorf("%s: create container %q: %w", op, container, err)
	}

	return &Storage{
		client:        client,
		container:     container,
		publicBaseURL: publicBaseURL,
	}, nil
}

func (s *Storage) Store(ctx context.Context, data []byte, id string, v variant.Name) (string, error) {
	const op = "blobstore.azure.Store"

	key := blobstore.Key(id, v)

	_, err := s.client.UploadBuffer(ctx, s.container, key, data, &azblob.UploadBufferOptions{
		HTTPHeaders: &blob.HTTPHeaders{
			BlobContentType:        to.Ptr(blobstore.ContentType),
			BlobContentDisposition: to.Ptr(blobstore.ContentDisposition),
			BlobCacheControl:       to.Ptr(blobstore.CacheControl),
		},
	})
	if err != nil {
		return "", fmt.Errorf("%s: upload %q: %w", op, key, err)
	}

	return blobstore.PublicURL(s.publicBaseURL, key), nil
}
