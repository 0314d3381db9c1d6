package core

import (
	"net/http"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

const (
	DataSourceErrorDecryptionFailed     = "DATASOURCE_DECRYPTION_FAILED"
	DataSourceErrorIsolationUnsupported = "DATASOURCE_ISOLATION_UNSUPPORTED"
	DataSourceErrorCreateFailed         = "DATASOURCE_CREATE_FAILED"
	DataSourceErrorLoggerUnsupported    = "DATASOURCE_LOGGER_UNSUPPORTED"
	DataSourceErrorConfigSealed         = "DATASOURCE_CONFIG_SEALED"
	DataSourceErrorClosed               = "DATASOURCE_CLOSED"
	DataSourceErrorBadInput             = "DATASOURCE_BAD_INPUT"
	DataSourceErrorInternal             = "DATASOURCE_INTERNAL_ERROR"
)

// ErrorFactory mirrors the goerrors constructor so callers can inject
// their own error envelopes.
type ErrorFactory func(message string, category ...goerrors.Category) *goerrors.Error

// ErrorMapper normalizes arbitrary errors into the goerrors envelope.
type ErrorMapper func(err error) *goerrors.Error

func ensureErrorFactory(factory ErrorFactory) ErrorFactory {
	if factory == nil {
		return goerrors.New
	}
	return factory
}

func newDecryptionError(factory ErrorFactory, cipherName string, cause error) error {
	metadata := map[string]any{"cipher": cipherName}
	if cause != nil {
		metadata["cause"] = cause.Error()
	}
	return ensureErrorFactory(factory)("core: password decryption failed", goerrors.CategoryAuth).
		WithCode(http.StatusUnauthorized).
		WithTextCode(DataSourceErrorDecryptionFailed).
		WithMetadata(metadata)
}

func newIsolationError(factory ErrorFactory, symbolic string) error {
	return ensureErrorFactory(factory)("core: unsupported transaction isolation level: "+symbolic, goerrors.CategoryBadInput).
		WithCode(http.StatusBadRequest).
		WithTextCode(DataSourceErrorIsolationUnsupported)
}

// newCreateError wraps rather than constructs: the engine cause must stay
// on the error chain for errors.Is.
func newCreateError(cause error) error {
	return goerrors.Wrap(cause, goerrors.CategoryExternal, "core: pool engine creation failed").
		WithCode(http.StatusBadGateway).
		WithTextCode(DataSourceErrorCreateFailed)
}

func newLoggerUnsupportedError(factory ErrorFactory) error {
	return ensureErrorFactory(factory)("core: pool instance exposes no parent logger", goerrors.CategoryOperation).
		WithCode(http.StatusNotImplemented).
		WithTextCode(DataSourceErrorLoggerUnsupported)
}

func newConfigSealedError(factory ErrorFactory, field string) error {
	return ensureErrorFactory(factory)("core: configuration is sealed after creation: "+field, goerrors.CategoryConflict).
		WithCode(http.StatusConflict).
		WithTextCode(DataSourceErrorConfigSealed)
}

func newClosedError(factory ErrorFactory, name string) error {
	return ensureErrorFactory(factory)("core: data source is closed: "+name, goerrors.CategoryConflict).
		WithCode(http.StatusConflict).
		WithTextCode(DataSourceErrorClosed)
}

// IsDecryptionFailure reports whether err is a credential decryption
// failure raised during creation.
func IsDecryptionFailure(err error) bool {
	return hasTextCode(err, DataSourceErrorDecryptionFailed)
}

// IsUnsupportedIsolationLevel reports whether err came from an
// unrecognized symbolic isolation name.
func IsUnsupportedIsolationLevel(err error) bool {
	return hasTextCode(err, DataSourceErrorIsolationUnsupported)
}

// IsUnderlyingCreationFailure reports whether err wraps a pool engine
// construction failure.
func IsUnderlyingCreationFailure(err error) bool {
	return hasTextCode(err, DataSourceErrorCreateFailed)
}

// IsLoggerUnsupported reports whether err signals an instance without a
// parent logger.
func IsLoggerUnsupported(err error) bool {
	return hasTextCode(err, DataSourceErrorLoggerUnsupported)
}

// IsConfigSealed reports whether err came from a setter invoked after the
// underlying instance was created.
func IsConfigSealed(err error) bool {
	return hasTextCode(err, DataSourceErrorConfigSealed)
}

// IsClosed reports whether err came from an operation on a closed factory.
func IsClosed(err error) bool {
	return hasTextCode(err, DataSourceErrorClosed)
}

func hasTextCode(err error, textCode string) bool {
	if err == nil {
		return false
	}
	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) {
		return false
	}
	return richErr.TextCode == textCode
}

func dataSourceErrorMapper(err error) *goerrors.Error {
	if err == nil {
		return nil
	}
	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		return ensureDataSourceErrorEnvelope(richErr)
	}
	msg := strings.ToLower(strings.TrimSpace(err.Error()))
	switch {
	case strings.Contains(msg, "decrypt"):
		return ensureDataSourceErrorEnvelope(
			goerrors.Wrap(err, goerrors.CategoryAuth, err.Error()).
				WithTextCode(DataSourceErrorDecryptionFailed))
	case strings.Contains(msg, "required"), strings.Contains(msg, "invalid"):
		return ensureDataSourceErrorEnvelope(
			goerrors.Wrap(err, goerrors.CategoryBadInput, err.Error()).
				WithTextCode(DataSourceErrorBadInput))
	}
	mapped := goerrors.MapToError(err, goerrors.DefaultErrorMappers())
	return ensureDataSourceErrorEnvelope(mapped)
}

func ensureDataSourceErrorEnvelope(err *goerrors.Error) *goerrors.Error {
	if err == nil {
		return nil
	}
	if err.Code == 0 {
		err.Code = dataSourceHTTPStatus(err.Category)
	}
	if strings.TrimSpace(err.TextCode) == "" {
		err.TextCode = defaultDataSourceTextCode(err.Category)
	}
	return err
}

func defaultDataSourceTextCode(category goerrors.Category) string {
	switch category {
	case goerrors.CategoryBadInput, goerrors.CategoryValidation:
		return DataSourceErrorBadInput
	case goerrors.CategoryAuth:
		return DataSourceErrorDecryptionFailed
	case goerrors.CategoryConflict:
		return DataSourceErrorConfigSealed
	case goerrors.CategoryExternal:
		return DataSourceErrorCreateFailed
	default:
		return DataSourceErrorInternal
	}
}

func dataSourceHTTPStatus(category goerrors.Category) int {
	switch category {
	case goerrors.CategoryBadInput, goerrors.CategoryValidation:
		return http.StatusBadRequest
	case goerrors.CategoryAuth:
		return http.StatusUnauthorized
	case goerrors.CategoryConflict:
		return http.StatusConflict
	case goerrors.CategoryExternal:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
