package service

import (
	"github.com/google/uuid"

	"github.com/d60-Lab/vidhub/pkg/errcode"
)

var (
	ErrSelfSubscription = errcode.InvalidArgument("cannot subscribe to own channel")
	ErrInvalidSort      = errcode.InvalidArgument("unsupported sort field or direction")
	ErrBlankName        = errcode.InvalidArgument("name is required")
	ErrBlankTitle       = errcode.InvalidArgument("title and description are required")
	ErrNothingToUpdate  = errcode.InvalidArgument("at least one field is required")
	ErrMissingMedia     = errcode.InvalidArgument("video file and thumbnail are required")

	ErrUserNotFound     = errcode.NotFound("user not found")
	ErrChannelNotFound  = errcode.NotFound("channel not found")
	ErrVideoNotFound    = errcode.NotFound("video not found")
	ErrCommentNotFound  = errcode.NotFound("comment not found")
	ErrTweetNotFound    = errcode.NotFound("tweet not found")
	ErrPlaylistNotFound = errcode.NotFound("playlist not found")

	ErrNotOwner = errcode.Forbidden("only the owner can modify this resource")

	ErrToggleConflict    = errcode.Conflict("a concurrent request changed this relationship, retry")
	ErrAlreadyInPlaylist = errcode.Conflict("video already in playlist")
	ErrNotInPlaylist     = errcode.Conflict("video not in playlist")
)

// storeErr 将存储层错误包装为下游失败
func storeErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return errcode.Dependency(op, err)
}

func newID() string { return uuid.NewString() }
