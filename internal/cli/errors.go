package cli

type errNoServer struct{}

func (errNoServer) Error() string {
	return "no server configured; run `sheets config set --server <url>` (or set SHEETS_SERVER)"
}

type errNoWorksheet struct{}

func (errNoWorksheet) Error() string {
	return "no worksheet selected; pass --worksheet, set SHEETS_WORKSHEET, or run `sheets config set --worksheet <uuid>`"
}
