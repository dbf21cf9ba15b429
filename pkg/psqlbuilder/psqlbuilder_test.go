package psqlbuilder

import (
	"testing"

	"github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectUsesDollarPlaceholders(t *testing.T) {
	query, args, err := Select("id", "status").
		From("appointments").
		Where(squirrel.Eq{"professional_id": 7, "status": "pending"}).
		ToSql()

	require.NoError(t, err)
	assert.Equal(t, "SELECT id, status FROM appointments WHERE professional_id = $1 AND status = $2", query)
	assert.Equal(t, []interface{}{7, "pending"}, args)
}

func TestUpdateAndDelete(t *testing.T) {
	query, args, err := Update("payments").
		Set("status", "pagado").
		Where(squirrel.Eq{"appointment_id": 3}).
		ToSql()
	require.NoError(t, err)
	assert.Equal(t, "UPDATE payments SET status = $1 WHERE appointment_id = $2", query)
	assert.Equal(t, []interface{}{"pagado", 3}, args)

	query, _, err = Delete("availability_blocks").Where(squirrel.Eq{"professional_id": 1}).ToSql()
	require.NoError(t, err)
	assert.Equal(t, "DELETE FROM availability_blocks WHERE professional_id = $1", query)
}
