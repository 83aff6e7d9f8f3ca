package services

import (
	"bytes"
	"image/png"

	"skinlib-api/internal/application/ports"
	"skinlib-api/internal/domain/texture"
)

var allowedMimeTypes = map[string]struct{}{
	"image/png":   {},
	"image/x-png": {},
}

type UploadValidator struct {
	blobs       ports.BlobStore
	maxSizeByte int64
}

func NewUploadValidator(blobs ports.BlobStore, maxSizeKB int64) *UploadValidator {
	return &UploadValidator{
		blobs:       blobs,
		maxSizeByte: maxSizeKB * 1024,
	}
}

// Validate checks an upload rule by rule, first failure wins. It computes the
// content hash but stores nothing.
func (v *UploadValidator) Validate(in texture.Upload) (*texture.Descriptor, error) {
	if in.TransportCode != texture.UploadErrOK {
		return nil, &texture.ValidationError{Field: "file", Reason: texture.ReasonUploadTransport, Code: in.TransportCode}
	}

	name := NormalizeTextureName(in.Name)
	if !ValidTextureName(name) {
		return nil, &texture.ValidationError{Field: "name", Reason: texture.ReasonInvalidName}
	}

	if int64(len(in.Data)) > v.maxSizeByte {
		return nil, &texture.ValidationError{Field: "file", Reason: texture.ReasonFileTooLarge}
	}

	if in.Public == nil {
		return nil, &texture.ValidationError{Field: "public", Reason: texture.ReasonMissingVisibility}
	}

	if _, ok := allowedMimeTypes[in.MimeType]; !ok {
		return nil, &texture.ValidationError{Field: "file", Reason: texture.ReasonUnsupportedFormat}
	}

	if err := checkDimensions(in.Type, in.Data); err != nil {
		return nil, err
	}

	return &texture.Descriptor{
		Name:   name,
		Type:   in.Type,
		SizeKB: sizeKB(len(in.Data)),
		Hash:   v.blobs.Hash(in.Data),
		Public: *in.Public,
	}, nil
}

func checkDimensions(t texture.AssetType, data []byte) error {
	if !t.Valid() {
		return &texture.ValidationError{Field: "type", Reason: texture.ReasonIllegalAssetType}
	}

	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	if err != nil || cfg.Height == 0 {
		return &texture.ValidationError{Field: "file", Reason: texture.ReasonUnsupportedFormat}
	}
	w, h := cfg.Width, cfg.Height

	if t.IsSkin() {
		if (w != 2*h && w != h) || w%64 != 0 || h%32 != 0 {
			return &texture.ValidationError{
				Field:  "file",
				Reason: texture.ReasonInvalidSkinDimensions,
				Width:  w,
				Height: h,
			}
		}
		return nil
	}

	if w != 2*h {
		return &texture.ValidationError{
			Field:  "file",
			Reason: texture.ReasonInvalidCapeDimensions,
			Width:  w,
			Height: h,
		}
	}
	return nil
}

func sizeKB(n int) int64 {
	return (int64(n) + 1023) / 1024
}
