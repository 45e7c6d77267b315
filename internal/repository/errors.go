package repository

import "errors"

// 見つからないを統一
var ErrNotFound = errors.New("not found")

// リフレッシュトークンが見つからない
var ErrRefreshTokenNotFound = errors.New("refresh token not found")
