package aws_s3

import (
	"bytes"
	"context"

	"github.com/haierkeys/note-tree-service/pkg/fileurl"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/transfermanager"
	tmtypes "github.com/aws/aws-sdk-go-v2/feature/s3/transfermanager/types"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// SendContent 通过 transfermanager 上传内容，大对象自动分片
func (p *S3) SendContent(ctx context.Context, pathKey string, content []byte, contentType string) (string, error) {
	fileKey := fileurl.ObjectKey(p.CustomPath, pathKey)

	input := &transfermanager.UploadObjectInput{
		Bucket:            aws.String(p.BucketName),
		Key:               aws.String(fileKey),
		Body:              bytes.NewReader(content),
		ChecksumAlgorithm: tmtypes.ChecksumAlgorithmSha256,
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}
	if _, err := p.TransferManager.UploadObject(ctx, input); err != nil {
		return "", errors.Wrap(err, "aws_s3")
	}

	p.logger.Debug("object uploaded",
		zap.String("bucket", p.BucketName),
		zap.String("key", fileKey),
		zap.Int("size", len(content)))
	return fileKey, nil
}
