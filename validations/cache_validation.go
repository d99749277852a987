package validations

import (
	"context"

	cacheDomain "github.com/AzielCF/az-content/contentcache/domain"
	domainCache "github.com/AzielCF/az-content/domains/cache"
	pkgError "github.com/AzielCF/az-content/pkg/error"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const MaxKeyLength = 256

func ValidateCacheKey(ctx context.Context, key string) error {
	err := validation.ValidateWithContext(ctx, key, validation.Required, validation.Length(1, MaxKeyLength))
	if err != nil {
		return pkgError.ValidationError("key: " + err.Error())
	}
	return nil
}

func ValidateOutline(ctx context.Context, outline cacheDomain.Outline) error {
	if err := outline.Validate(); err != nil {
		return pkgError.ValidationError(err.Error())
	}
	return nil
}

func ValidateContent(ctx context.Context, content cacheDomain.Content) error {
	if err := content.Validate(); err != nil {
		return pkgError.ValidationError(err.Error())
	}
	return nil
}

func ValidateCacheSettings(ctx context.Context, request domainCache.CacheSettings) error {
	err := validation.ValidateStructWithContext(ctx, &request,
		validation.Field(&request.MaxSize, validation.Required, validation.Min(1)),
		validation.Field(&request.EvictionPolicy, validation.Required, validation.In(
			string(cacheDomain.EvictionLRU),
			string(cacheDomain.EvictionTTL),
			string(cacheDomain.EvictionHybrid),
		)),
	)

	if err != nil {
		return pkgError.ValidationError(err.Error())
	}

	return nil
}
