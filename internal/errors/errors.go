// Package errors provides the error taxonomy of the KasKita client engine.
// Every service-layer error is an AppError so the daemon can render a stable
// code and a user-facing message without leaking backend details.
package errors

import (
	"errors"
	"net/http"
)

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, and optional internal error.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Is reports whether target is an AppError with the same code, so wrapped
// copies still match their sentinel.
func (e *AppError) Is(target error) bool {
	var t *AppError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// CodeOf returns the AppError code carried by err, or "" if there is none.
func CodeOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// Validation errors. These are produced before any request reaches the backend.
var (
	ErrInvalidInput      = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrMissingField      = &AppError{Code: "MISSING_FIELD", Message: "Data belum lengkap", StatusCode: http.StatusUnprocessableEntity}
	ErrInvalidAmount     = &AppError{Code: "INVALID_AMOUNT", Message: "Nominal tidak valid", StatusCode: http.StatusUnprocessableEntity}
	ErrInvalidPeriod     = &AppError{Code: "INVALID_PERIOD", Message: "Periode tidak valid", StatusCode: http.StatusBadRequest}
	ErrSameAssetTransfer = &AppError{Code: "SAME_ASSET_TRANSFER", Message: "Aset tujuan harus berbeda dengan aset asal", StatusCode: http.StatusUnprocessableEntity}
	ErrTypeImmutable     = &AppError{Code: "TYPE_IMMUTABLE", Message: "Tipe tidak dapat diubah setelah dibuat", StatusCode: http.StatusUnprocessableEntity}
	ErrInvalidType       = &AppError{Code: "INVALID_TRANSACTION_TYPE", Message: "Tipe transaksi tidak didukung", StatusCode: http.StatusUnprocessableEntity}
)

// Authentication errors.
var (
	ErrUnauthenticated      = &AppError{Code: "UNAUTHENTICATED", Message: "Sesi berakhir. Silakan login kembali.", StatusCode: http.StatusUnauthorized}
	ErrSessionRefreshFailed = &AppError{Code: "SESSION_REFRESH_FAILED", Message: "Gagal memperbarui sesi. Silakan login kembali.", StatusCode: http.StatusUnauthorized}
	ErrInvalidCredentials   = &AppError{Code: "INVALID_CREDENTIALS", Message: "Login gagal", StatusCode: http.StatusUnauthorized}
)

// General errors.
var (
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Data tidak ditemukan", StatusCode: http.StatusNotFound}
	ErrStaleResponse  = &AppError{Code: "STALE_RESPONSE", Message: "Data sudah digantikan oleh permintaan yang lebih baru", StatusCode: http.StatusConflict}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// Network and server errors, one per operation family. The backend status and
// message travel in Internal.
var (
	ErrFetchTransactions   = &AppError{Code: "FETCH_TRANSACTIONS_FAILED", Message: "Gagal mengambil data transaksi. Coba lagi nanti.", StatusCode: http.StatusBadGateway}
	ErrCreateTransaction   = &AppError{Code: "CREATE_TRANSACTION_FAILED", Message: "Gagal menambahkan transaksi. Coba lagi nanti.", StatusCode: http.StatusBadGateway}
	ErrUpdateTransaction   = &AppError{Code: "UPDATE_TRANSACTION_FAILED", Message: "Gagal update transaksi. Coba lagi nanti.", StatusCode: http.StatusBadGateway}
	ErrDeleteTransaction   = &AppError{Code: "DELETE_TRANSACTION_FAILED", Message: "Gagal menghapus transaksi. Coba lagi nanti.", StatusCode: http.StatusBadGateway}
	ErrVoiceTransaction    = &AppError{Code: "VOICE_TRANSACTION_FAILED", Message: "Gagal memproses transaksi suara. Coba lagi nanti.", StatusCode: http.StatusBadGateway}
	ErrFetchAssets         = &AppError{Code: "FETCH_ASSETS_FAILED", Message: "Gagal mengambil data aset. Coba lagi nanti.", StatusCode: http.StatusBadGateway}
	ErrSaveAsset           = &AppError{Code: "SAVE_ASSET_FAILED", Message: "Gagal menyimpan aset. Coba lagi nanti.", StatusCode: http.StatusBadGateway}
	ErrDeleteAsset         = &AppError{Code: "DELETE_ASSET_FAILED", Message: "Gagal menghapus aset. Coba lagi nanti.", StatusCode: http.StatusBadGateway}
	ErrFetchSavings        = &AppError{Code: "FETCH_SAVINGS_FAILED", Message: "Gagal mengambil data tabungan. Coba lagi nanti.", StatusCode: http.StatusBadGateway}
	ErrSaveSaving          = &AppError{Code: "SAVE_SAVING_FAILED", Message: "Gagal menyimpan tabungan. Coba lagi nanti.", StatusCode: http.StatusBadGateway}
	ErrDeleteSaving        = &AppError{Code: "DELETE_SAVING_FAILED", Message: "Gagal menghapus tabungan. Coba lagi nanti.", StatusCode: http.StatusBadGateway}
	ErrFetchLoans          = &AppError{Code: "FETCH_LOANS_FAILED", Message: "Gagal mengambil data pinjaman. Coba lagi nanti.", StatusCode: http.StatusBadGateway}
	ErrSaveLoan            = &AppError{Code: "SAVE_LOAN_FAILED", Message: "Gagal menyimpan pinjaman. Coba lagi nanti.", StatusCode: http.StatusBadGateway}
	ErrDeleteLoan          = &AppError{Code: "DELETE_LOAN_FAILED", Message: "Gagal menghapus pinjaman. Coba lagi nanti.", StatusCode: http.StatusBadGateway}
	ErrFetchCategories     = &AppError{Code: "FETCH_CATEGORIES_FAILED", Message: "Gagal mengambil data kategori. Coba lagi nanti.", StatusCode: http.StatusBadGateway}
	ErrSaveCategory        = &AppError{Code: "SAVE_CATEGORY_FAILED", Message: "Gagal menyimpan kategori. Coba lagi nanti.", StatusCode: http.StatusBadGateway}
	ErrDeleteCategory      = &AppError{Code: "DELETE_CATEGORY_FAILED", Message: "Gagal menghapus kategori. Coba lagi nanti.", StatusCode: http.StatusBadGateway}
	ErrSaveBudget          = &AppError{Code: "SAVE_BUDGET_FAILED", Message: "Gagal menyimpan budget. Coba lagi nanti.", StatusCode: http.StatusBadGateway}
	ErrFetchBudgeting      = &AppError{Code: "FETCH_BUDGETING_FAILED", Message: "Gagal mengambil data budgeting. Coba lagi nanti.", StatusCode: http.StatusBadGateway}
	ErrFetchMonthlySummary = &AppError{Code: "FETCH_MONTHLY_SUMMARY_FAILED", Message: "Gagal mengambil data month summary. Coba lagi nanti.", StatusCode: http.StatusBadGateway}
	ErrFetchStatistics     = &AppError{Code: "FETCH_STATISTICS_FAILED", Message: "Gagal mengambil data statistik. Coba lagi nanti.", StatusCode: http.StatusBadGateway}
	ErrFetchSettings       = &AppError{Code: "FETCH_SETTINGS_FAILED", Message: "Gagal mengambil pengaturan. Coba lagi nanti.", StatusCode: http.StatusBadGateway}
	ErrSaveSettings        = &AppError{Code: "SAVE_SETTINGS_FAILED", Message: "Gagal menyimpan pengaturan. Coba lagi nanti.", StatusCode: http.StatusBadGateway}
	ErrLogin               = &AppError{Code: "LOGIN_FAILED", Message: "Login gagal", StatusCode: http.StatusBadGateway}
	ErrRegister            = &AppError{Code: "REGISTER_FAILED", Message: "Registrasi gagal. Coba lagi nanti.", StatusCode: http.StatusBadGateway}
	ErrFetchProfile        = &AppError{Code: "FETCH_PROFILE_FAILED", Message: "Gagal mengambil profil. Coba lagi nanti.", StatusCode: http.StatusBadGateway}
	ErrSaveProfile         = &AppError{Code: "SAVE_PROFILE_FAILED", Message: "Gagal memperbarui profil. Coba lagi nanti.", StatusCode: http.StatusBadGateway}
	ErrImageUpload         = &AppError{Code: "IMAGE_UPLOAD_FAILED", Message: "Gagal mengunggah gambar", StatusCode: http.StatusBadGateway}
	ErrImageDelete         = &AppError{Code: "IMAGE_DELETE_FAILED", Message: "Gagal menghapus gambar", StatusCode: http.StatusBadGateway}
)
