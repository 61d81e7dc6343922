package store

import (
	"fmt"
	"strconv"
	"strings"
)

// serializeClients renders the snapshot's plaintext body: one client record
// per line-group, separated by a lone "===" line, fields pipe-terminated.
func serializeClients(clients map[string]*Client) string {
	var b strings.Builder
	for _, c := range clients {
		fmt.Fprintf(&b, "%s|%s|%s|%s|%s|%d|%d|\n",
			c.AccountID, c.FullName, c.BirthDate, c.PassportData, c.PasswordHash,
			int(c.Status), len(c.Accounts))
		for _, acc := range c.Accounts {
			fmt.Fprintf(&b, "%s|%d|%s|%s|%d|%d|\n",
				acc.Number, int(acc.Type), formatFloat(acc.Balance), formatFloat(acc.CreditLimit),
				int(acc.Status), len(acc.Transactions))
			for _, txn := range acc.Transactions {
				fmt.Fprintf(&b, "%s|%d|%s|%s|%s|%s|\n",
					txn.ID, txn.Timestamp.Unix(), txn.Type, formatFloat(txn.Amount),
					txn.Description, txn.TargetAccount)
			}
		}
		b.WriteString("===\n")
	}
	return b.String()
}

// deserializeClients parses the plaintext body produced by serializeClients.
// Malformed lines are skipped rather than aborting the whole load, matching
// the tolerant parsing the original database format relies on.
func deserializeClients(data string) map[string]*Client {
	clients := make(map[string]*Client)
	lines := strings.Split(data, "\n")

	i := 0
	next := func() (string, bool) {
		if i >= len(lines) {
			return "", false
		}
		line := lines[i]
		i++
		return line, true
	}

	for {
		line, ok := next()
		if !ok {
			break
		}
		if line == "" || line == "===" {
			continue
		}

		fields := splitPipe(line)
		if len(fields) < 7 {
			continue
		}
		statusInt, err1 := strconv.Atoi(fields[5])
		accountCount, err2 := strconv.Atoi(fields[6])
		if err1 != nil || err2 != nil {
			continue
		}

		client := &Client{
			AccountID:    fields[0],
			FullName:     fields[1],
			BirthDate:    fields[2],
			PassportData: fields[3],
			PasswordHash: fields[4],
			Status:       ClientStatus(statusInt),
		}

		for a := 0; a < accountCount; a++ {
			accLine, ok := next()
			if !ok || accLine == "" || accLine == "===" {
				break
			}
			accFields := splitPipe(accLine)
			if len(accFields) < 6 {
				continue
			}
			typeInt, errT := strconv.Atoi(accFields[1])
			balance, errB := strconv.ParseFloat(accFields[2], 64)
			limit, errL := strconv.ParseFloat(accFields[3], 64)
			statusInt, errS := strconv.Atoi(accFields[4])
			txnCount, errC := strconv.Atoi(accFields[5])
			if errT != nil || errB != nil || errL != nil || errS != nil || errC != nil {
				continue
			}

			account := Account{
				Number:      accFields[0],
				Type:        AccountType(typeInt),
				Balance:     balance,
				CreditLimit: limit,
				Status:      AccountStatus(statusInt),
			}

			for t := 0; t < txnCount; t++ {
				txnLine, ok := next()
				if !ok || txnLine == "" || txnLine == "===" {
					break
				}
				txnFields := splitPipe(txnLine)
				if len(txnFields) < 6 {
					continue
				}
				ts, errTs := strconv.ParseInt(txnFields[1], 10, 64)
				amount, errA := strconv.ParseFloat(txnFields[3], 64)
				if errTs != nil || errA != nil {
					continue
				}
				account.Transactions = append(account.Transactions, Transaction{
					ID:            txnFields[0],
					Timestamp:     unixTime(ts),
					Type:          txnFields[2],
					Amount:        amount,
					Description:   txnFields[4],
					TargetAccount: txnFields[5],
				})
			}

			client.Accounts = append(client.Accounts, account)
		}

		clients[client.AccountID] = client
	}

	return clients
}

func serializeSettings(s Settings) string {
	return fmt.Sprintf("%s|%s|%s|%s|\n",
		formatFloat(s.CreditInterestRate), formatFloat(s.DepositInterestRate),
		formatFloat(s.LargeOperationThreshold), formatFloat(s.LargeLoanThreshold))
}

func deserializeSettings(data string) (Settings, bool) {
	line := strings.SplitN(data, "\n", 2)[0]
	fields := splitPipe(line)
	if len(fields) < 4 {
		return Settings{}, false
	}
	credit, err1 := strconv.ParseFloat(fields[0], 64)
	deposit, err2 := strconv.ParseFloat(fields[1], 64)
	opThreshold, err3 := strconv.ParseFloat(fields[2], 64)
	loanThreshold, err4 := strconv.ParseFloat(fields[3], 64)
	if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
		return Settings{}, false
	}
	return Settings{
		CreditInterestRate:      credit,
		DepositInterestRate:     deposit,
		LargeOperationThreshold: opThreshold,
		LargeLoanThreshold:      loanThreshold,
	}, true
}

// splitPipe splits a pipe-terminated line into its fields, dropping the
// trailing empty field left by the terminator.
func splitPipe(line string) []string {
	parts := strings.Split(line, "|")
	if len(parts) > 0 && parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}
	return parts
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
