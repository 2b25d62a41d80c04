package common

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"

	"github.com/nfnt/resize"
	"github.com/questx-lab/giveaway/pkg/errorx"
	"github.com/questx-lab/giveaway/pkg/storage"
	"github.com/questx-lab/giveaway/pkg/xcontext"
)

const (
	PrizeImagePrefix = "prizes"
	PrizeImageSize   = 1024
)

// ProcessPrizeImage reads the image of the multipart form field key, shrinks
// it to fit PrizeImageSize and uploads it.
func ProcessPrizeImage(
	ctx context.Context, fileStorage storage.Storage, key, name string,
) (*storage.UploadResponse, error) {
	req := xcontext.HTTPRequest(ctx)
	if req == nil {
		return nil, errorx.New(errorx.BadRequest, "Request must be multipart form")
	}

	maxSize := int64(xcontext.Configs(ctx).File.MaxSize) << 20
	if err := req.ParseMultipartForm(maxSize); err != nil {
		return nil, errorx.New(errorx.BadRequest, "Request must be multipart form")
	}

	file, header, err := req.FormFile(key)
	if err != nil {
		return nil, errorx.New(errorx.BadRequest, "Error retrieving the file")
	}
	defer file.Close()

	if header.Size > maxSize {
		return nil, errorx.New(errorx.BadRequest, "File is too large")
	}

	mime := header.Header.Get("Content-Type")
	img, err := decodeImg(mime, file)
	if err != nil {
		return nil, errorx.New(errorx.BadRequest, "Invalid image: %v", err)
	}

	img = resize.Thumbnail(PrizeImageSize, PrizeImageSize, img, resize.Lanczos2)
	b, err := encodeImg(mime, img)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot encode image: %v", err)
		return nil, errorx.Unknown
	}

	resp, err := fileStorage.Upload(ctx, &storage.UploadObject{
		Bucket:   xcontext.Configs(ctx).Storage.Bucket,
		Prefix:   PrizeImagePrefix,
		FileName: fmt.Sprintf("%s-%s", name, header.Filename),
		Mime:     mime,
		Data:     b,
	})
	if err != nil {
		if errors.Is(err, storage.ErrUnavailable) {
			return nil, errorx.New(errorx.Unavailable, "Image upload is not available")
		}

		xcontext.Logger(ctx).Errorf("Cannot upload image: %v", err)
		return nil, errorx.Unknown
	}

	return resp, nil
}

func decodeImg(mime string, data io.Reader) (img image.Image, err error) {
	switch mime {
	case "image/jpeg":
		img, err = jpeg.Decode(data)
	case "image/png", "application/octet-stream":
		img, err = png.Decode(data)
	case "image/gif":
		img, err = gif.Decode(data)
	default:
		return nil, fmt.Errorf("only jpeg, gif or png is accepted")
	}

	return img, err
}

func encodeImg(mime string, img image.Image) ([]byte, error) {
	buf := new(bytes.Buffer)

	var err error
	switch mime {
	case "image/jpeg":
		err = jpeg.Encode(buf, img, nil)
	case "image/png", "application/octet-stream":
		err = png.Encode(buf, img)
	case "image/gif":
		err = gif.Encode(buf, img, nil)
	default:
		return nil, fmt.Errorf("only jpeg, gif or png is accepted")
	}

	if err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
