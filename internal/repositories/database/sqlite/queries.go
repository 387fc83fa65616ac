package sqlite

const (
	schema = `
	CREATE TABLE IF NOT EXISTS customers (
		customer_id TEXT PRIMARY KEY,
		full_name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		phone TEXT NOT NULL UNIQUE,
		address TEXT,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS logins (
		username TEXT PRIMARY KEY,
		password_hash TEXT NOT NULL,
		customer_id TEXT NOT NULL UNIQUE REFERENCES customers(customer_id),
		last_login_at TEXT
	);

	CREATE TABLE IF NOT EXISTS accounts (
		account_id TEXT PRIMARY KEY,
		owner_id TEXT NOT NULL REFERENCES customers(customer_id),
		account_type TEXT NOT NULL CHECK (account_type IN ('SAVINGS', 'CHEQUING')),
		balance TEXT NOT NULL DEFAULT '0',
		opened_at TEXT NOT NULL,
		last_activity_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_accounts_owner ON accounts(owner_id);

	-- Append-only journal.
	CREATE TABLE IF NOT EXISTS transactions (
		transaction_id INTEGER PRIMARY KEY AUTOINCREMENT,
		account_id TEXT NOT NULL REFERENCES accounts(account_id),
		kind TEXT NOT NULL,
		amount TEXT NOT NULL,
		balance_after TEXT NOT NULL,
		status TEXT NOT NULL,
		created_at TEXT NOT NULL,
		correlation_id TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_transactions_account ON transactions(account_id, transaction_id DESC);
	CREATE INDEX IF NOT EXISTS idx_transactions_correlation ON transactions(correlation_id);`

	// Account queries
	accountColumns = `account_id, owner_id, account_type, balance, opened_at, last_activity_at`

	queryGetAccountByID = `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE account_id = ?`

	queryListAccountsByOwner = `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE owner_id = ?
		ORDER BY opened_at, CASE account_type WHEN 'SAVINGS' THEN 0 ELSE 1 END, account_id`

	queryLockAccountsPrefix = `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE account_id IN `

	queryUpdateAccountBalance = `
		UPDATE accounts SET balance = ?, last_activity_at = ? WHERE account_id = ?`

	queryInsertAccount = `
		INSERT INTO accounts (account_id, owner_id, account_type, balance, opened_at, last_activity_at)
		VALUES (?, ?, ?, ?, ?, ?)`

	// Journal queries
	recordColumns = `transaction_id, account_id, kind, amount, balance_after, status, created_at, correlation_id`

	queryInsertRecord = `
		INSERT INTO transactions (account_id, kind, amount, balance_after, status, created_at, correlation_id)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	queryListRecordsByAccount = `
		SELECT ` + recordColumns + `
		FROM transactions
		WHERE account_id = ? AND (? = 0 OR transaction_id < ?)
		ORDER BY transaction_id DESC
		LIMIT ?`

	queryListRecordsByOwner = `
		SELECT ` + recordColumns + `
		FROM transactions
		WHERE account_id IN (SELECT account_id FROM accounts WHERE owner_id = ?)
			AND (? = 0 OR transaction_id < ?)
		ORDER BY transaction_id DESC
		LIMIT ?`

	queryRecordsByCorrelation = `
		SELECT ` + recordColumns + `
		FROM transactions
		WHERE correlation_id = ?
		ORDER BY transaction_id`

	queryJournalOfAccount = `
		SELECT ` + recordColumns + `
		FROM transactions
		WHERE account_id = ?
		ORDER BY transaction_id`

	// Customer queries
	queryInsertCustomer = `
		INSERT INTO customers (customer_id, full_name, email, phone, address, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`

	queryInsertLogin = `
		INSERT INTO logins (username, password_hash, customer_id) VALUES (?, ?, ?)`

	customerColumns = `customer_id, full_name, email, phone, address, created_at`

	queryGetCustomerByID = `
		SELECT ` + customerColumns + `
		FROM customers
		WHERE customer_id = ?`

	queryGetCustomerByEmail = `
		SELECT ` + customerColumns + `
		FROM customers
		WHERE email = ?`

	queryGetLoginByUsername = `
		SELECT username, password_hash, customer_id, last_login_at
		FROM logins
		WHERE username = ?`

	queryRecordLogin = `
		UPDATE logins SET last_login_at = ? WHERE username = ?`
)
