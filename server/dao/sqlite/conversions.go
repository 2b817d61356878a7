package sqlite

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"time"

	"github.com/dekarrin/earley/server/dao"
	"github.com/google/uuid"
)

func convertToDB_UUID(id uuid.UUID) string {
	return id.String()
}

func convertFromDB_UUID(s string, target *uuid.UUID) error {
	id, err := uuid.Parse(s)
	if err != nil {
		return err
	}
	*target = id
	return nil
}

func convertToDB_Role(r dao.Role) string {
	return strconv.Itoa(int(r))
}

func convertFromDB_Role(s string, target *dao.Role) error {
	n, err := strconv.Atoi(s)
	if err != nil {
		return err
	}
	*target = dao.Role(n)
	return nil
}

// the zero time is stored as 0 so that it survives the round trip.
func convertToDB_Time(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.Unix()
}

func convertFromDB_Time(n int64, target *time.Time) error {
	if n < 0 {
		return fmt.Errorf("negative timestamp")
	}
	if n == 0 {
		*target = time.Time{}
		return nil
	}
	*target = time.Unix(n, 0)
	return nil
}

func convertToDB_Blob(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}

func convertFromDB_Blob(s string, target *[]byte) error {
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return err
	}
	*target = data
	return nil
}
