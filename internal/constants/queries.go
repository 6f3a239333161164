package constants

const (
	// BalanceIntegrityReport recomputes every balance from its ledger rows.
	// A drifted row is one where the stored amount disagrees with
	// refills + donations received - donations sent.
	BalanceIntegrityReport = `
	SELECT
		b.id,
		b.amount AS stored_amount,
		COALESCE(r.total, 0) + COALESCE(din.total, 0) - COALESCE(dout.total, 0) AS ledger_amount
	FROM balances b
	LEFT JOIN (SELECT balance_id, SUM(amount) AS total FROM refills GROUP BY balance_id) r
		ON r.balance_id = b.id
	LEFT JOIN (SELECT recipient_id, SUM(amount) AS total FROM donations GROUP BY recipient_id) din
		ON din.recipient_id = b.id
	LEFT JOIN (SELECT sender_id, SUM(amount) AS total FROM donations GROUP BY sender_id) dout
		ON dout.sender_id = b.id
	WHERE b.amount <> COALESCE(r.total, 0) + COALESCE(din.total, 0) - COALESCE(dout.total, 0)
	`
)
