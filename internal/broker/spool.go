package broker

import (
	"bufio"
	"os"
	"strconv"
	"strings"
	"time"
)

func serializeSpool(requests []ApprovalRequest) string {
	var b strings.Builder
	for _, r := range requests {
		b.WriteString(r.RequestID)
		b.WriteByte('|')
		b.WriteString(r.ClientAccountID)
		b.WriteByte('|')
		b.WriteString(string(r.OperationType))
		b.WriteByte('|')
		b.WriteString(strconv.FormatFloat(r.Amount, 'f', -1, 64))
		b.WriteByte('|')
		b.WriteString(r.TargetAccount)
		b.WriteByte('|')
		b.WriteString(r.Description)
		b.WriteByte('|')
		b.WriteString(strconv.FormatInt(r.Timestamp.Unix(), 10))
		b.WriteByte('|')
		b.WriteString(string(r.Status))
		b.WriteByte('\n')
	}
	return b.String()
}

func deserializeSpool(data string) []ApprovalRequest {
	var out []ApprovalRequest
	for _, line := range strings.Split(data, "\n") {
		if line == "" {
			continue
		}
		fields := strings.Split(line, "|")
		if len(fields) < 8 {
			continue
		}
		amount, err := strconv.ParseFloat(fields[3], 64)
		if err != nil {
			amount = 0
		}
		sec, err := strconv.ParseInt(fields[6], 10, 64)
		if err != nil {
			sec = time.Now().Unix()
		}
		out = append(out, ApprovalRequest{
			RequestID:       fields[0],
			ClientAccountID: fields[1],
			OperationType:   OperationType(fields[2]),
			Amount:          amount,
			TargetAccount:   fields[4],
			Description:     fields[5],
			Timestamp:       time.Unix(sec, 0),
			Status:          Outcome(fields[7]),
		})
	}
	return out
}

func writeSpool(path string, requests []ApprovalRequest) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := bufio.NewWriter(f)
	if _, err := w.WriteString(serializeSpool(requests)); err != nil {
		return err
	}
	return w.Flush()
}

func readSpool(path string) ([]ApprovalRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	return deserializeSpool(string(data)), nil
}
