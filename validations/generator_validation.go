package validations

import (
	"context"

	domainGenerator "github.com/AzielCF/az-content/domains/generator"
	pkgError "github.com/AzielCF/az-content/pkg/error"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	MaxOutlineSections = 20
	MaxWordCount       = 10000
)

func ValidateOutlineRequest(ctx context.Context, request domainGenerator.OutlineRequest) error {
	err := validation.ValidateStructWithContext(ctx, &request,
		validation.Field(&request.Topic, validation.Required, validation.Length(3, 200)),
		validation.Field(&request.Keyword, validation.Length(0, 100)),
		validation.Field(&request.Audience, validation.Length(0, 200)),
		validation.Field(&request.Tone, validation.Length(0, 50)),
		validation.Field(&request.Language, validation.Length(2, 10)),
		validation.Field(&request.Sections, validation.Min(0), validation.Max(MaxOutlineSections)),
	)

	if err != nil {
		return pkgError.ValidationError(err.Error())
	}

	return nil
}

func ValidateContentRequest(ctx context.Context, request domainGenerator.ContentRequest) error {
	err := validation.ValidateStructWithContext(ctx, &request,
		validation.Field(&request.Outline),
		validation.Field(&request.Keyword, validation.Length(0, 100)),
		validation.Field(&request.Tone, validation.Length(0, 50)),
		validation.Field(&request.Language, validation.Length(2, 10)),
		validation.Field(&request.WordCount, validation.Min(0), validation.Max(MaxWordCount)),
	)

	if err != nil {
		return pkgError.ValidationError(err.Error())
	}

	return nil
}
