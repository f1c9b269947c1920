package utils

const (
	// Pagination
	MembersPerPage = 10

	// Embed colors
	ErrorColor   = 0xFF0000
	SuccessColor = 0x00FF00
	WarningColor = 0xFFA500
	InfoColor    = 0x0099FF
)
