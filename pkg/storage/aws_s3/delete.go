package aws_s3

import (
	"context"

	"github.com/haierkeys/note-tree-service/pkg/fileurl"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/pkg/errors"
)

// Delete 删除对象，S3 对不存在的键同样返回成功
func (p *S3) Delete(ctx context.Context, pathKey string) error {
	_, err := p.S3Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(p.BucketName),
		Key:    aws.String(fileurl.ObjectKey(p.CustomPath, pathKey)),
	})
	if err != nil {
		return errors.Wrap(err, "aws_s3")
	}
	return nil
}
