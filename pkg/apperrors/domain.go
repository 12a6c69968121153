package apperrors

import (
	"net/http"
)

/*
Предопределенные ошибки бизнес-логики.
Сервисы возвращают их напрямую или через WithDetails/WithError.
*/

// --- Projects ---

var ErrProjectNotFound = New(CodeNotFound, "project", "Project not found", http.StatusNotFound)

var ErrNotProjectOwner = New(CodeForbidden, "project", "Only the project owner can perform this action", http.StatusForbidden)

var ErrProjectNotOpen = New(CodeInvalidState, "project", "Project is not open for bids", http.StatusConflict)

var ErrProjectFinalized = New(CodeInvalidState, "project", "Project can no longer be modified", http.StatusConflict)

var ErrInvalidStatusTransition = New(CodeInvalidState, "project", "Status transition is not allowed", http.StatusConflict)

var ErrModerationRequired = New(CodeInvalidState, "project", "Project content must pass moderation before publishing", http.StatusConflict)

var ErrContentRejected = New(CodeValidationFailed, "moderation", "Content violates platform rules", http.StatusBadRequest)

// --- Bids ---

var ErrBidNotFound = New(CodeNotFound, "bid", "Bid not found", http.StatusNotFound)

var ErrDuplicateBid = New(CodeConflict, "bid", "You already have an active bid on this project", http.StatusConflict)

var ErrBidNotPending = New(CodeInvalidState, "bid", "Bid is no longer pending", http.StatusConflict)

var ErrAcceptViaOrchestrator = New(CodeInvalidState, "bid", "Bids can only be accepted through the accept endpoint", http.StatusConflict)

var ErrOwnProjectBid = New(CodeForbidden, "bid", "You cannot bid on your own project", http.StatusForbidden)

var ErrAcceptConflict = New(CodeConflict, "bid", "Project was modified concurrently, please retry", http.StatusConflict)

// --- Reviews ---

var ErrReviewNotFound = New(CodeNotFound, "review", "Review not found", http.StatusNotFound)

var ErrReviewAlreadyReplied = New(CodeConflict, "review", "Review already has a reply", http.StatusConflict)

var ErrSelfReview = New(CodeValidationFailed, "review", "You cannot review yourself", http.StatusBadRequest)

// --- Chat ---

var ErrMessageNotFound = New(CodeNotFound, "chat", "Message not found", http.StatusNotFound)

var ErrNotRoomParticipant = New(CodeForbidden, "chat", "You are not a participant of this room", http.StatusForbidden)

var ErrInvalidRoom = New(CodeValidationFailed, "chat", "Invalid room id", http.StatusBadRequest)

// --- Uploads & Files ---

var ErrFileTooLarge = New(CodeValidationFailed, "upload", "File is too large", http.StatusBadRequest)

var ErrUnsupportedFileType = New(CodeValidationFailed, "upload", "File type is not allowed", http.StatusBadRequest)

// --- Auth ---

var ErrInsufficientPermissions = New(CodeForbidden, "auth", "Insufficient permissions", http.StatusForbidden)

var ErrInvalidToken = New(CodeUnauthorized, "auth", "Invalid or expired token", http.StatusUnauthorized)
