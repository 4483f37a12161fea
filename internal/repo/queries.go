package repo

const (
	qCreateUsersTable = `
CREATE TABLE IF NOT EXISTS users (
  id    TEXT PRIMARY KEY,
  name  TEXT NOT NULL,
  email TEXT NOT NULL UNIQUE
)`

	qCreateOrdersTable = `
CREATE TABLE IF NOT EXISTS orders (
  seq          BIGSERIAL UNIQUE,
  id           TEXT PRIMARY KEY,
  user_id      TEXT NOT NULL,
  items        JSONB NOT NULL,
  total_amount DOUBLE PRECISION NOT NULL
)`
)

const (
	qInsertUser = `INSERT INTO users (id, name, email) VALUES ($1, $2, $3)`

	qUser = `SELECT id, name, email FROM users WHERE id = $1`

	qUsers = `SELECT id, name, email FROM users ORDER BY name COLLATE "C", id`

	qUpdateUser = `
UPDATE users SET
  name  = COALESCE($2, name),
  email = COALESCE($3, email)
WHERE id = $1
RETURNING id, name, email`

	qDeleteUser = `DELETE FROM users WHERE id = $1`

	qClearUsers = `DELETE FROM users`
)

const (
	qInsertOrder = `INSERT INTO orders (id, user_id, items, total_amount) VALUES ($1, $2, $3, $4)`

	qOrder = `SELECT id, user_id, items, total_amount FROM orders WHERE id = $1`

	qOrders = `SELECT id, user_id, items, total_amount FROM orders ORDER BY seq`

	qRecentOrders = `SELECT id, user_id, items, total_amount FROM orders ORDER BY seq DESC LIMIT $1`

	qClearOrders = `DELETE FROM orders`
)
