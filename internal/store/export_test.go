package store

var DuplicateKeyError = duplicateKeyError
