package repository

import "database/sql"

const (
	defaultPerPage = 25
	maxPerPage     = 100
)

// pageBounds converts page/per_page into LIMIT/OFFSET, applying the default
// and the hard cap. Pages are 1-based.
func pageBounds(page, perPage int) (limit, offset int) {
	if perPage <= 0 {
		perPage = defaultPerPage
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}
	if page < 1 {
		page = 1
	}
	return perPage, (page - 1) * perPage
}

// requireRows turns a zero-rows-affected result into sql.ErrNoRows so callers
// get a uniform not-found signal.
func requireRows(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
