package outbox

import (
	"bytes"
	"testing"
)

func openTemp(t *testing.T) *Outbox {
	t.Helper()
	ob, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("open outbox: %v", err)
	}
	t.Cleanup(func() { ob.Close() })
	return ob
}

func TestPutGet(t *testing.T) {
	ob := openTemp(t)

	payload := []byte(`{"type":"trade","seq":1}`)
	if err := ob.Put(1, payload); err != nil {
		t.Fatalf("put: %v", err)
	}

	rec, err := ob.Get(1)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if rec.Seq != 1 || rec.State != StateNew || rec.Retries != 0 {
		t.Errorf("record = %+v", rec)
	}
	if !bytes.Equal(rec.Payload, payload) {
		t.Errorf("payload = %q, want %q", rec.Payload, payload)
	}
}

func TestStateTransitions(t *testing.T) {
	ob := openTemp(t)
	if err := ob.Put(7, []byte("x")); err != nil {
		t.Fatal(err)
	}

	if err := ob.MarkSent(7); err != nil {
		t.Fatal(err)
	}
	rec, _ := ob.Get(7)
	if rec.State != StateSent || rec.LastAttempt == 0 {
		t.Errorf("after sent: %+v", rec)
	}

	if err := ob.MarkFailed(7); err != nil {
		t.Fatal(err)
	}
	rec, _ = ob.Get(7)
	if rec.State != StateFailed || rec.Retries != 1 {
		t.Errorf("after failed: %+v", rec)
	}

	if err := ob.MarkFailed(7); err != nil {
		t.Fatal(err)
	}
	rec, _ = ob.Get(7)
	if rec.Retries != 2 {
		t.Errorf("retries = %d, want 2", rec.Retries)
	}

	if err := ob.MarkAcked(7); err != nil {
		t.Fatal(err)
	}
	rec, _ = ob.Get(7)
	if rec.State != StateAcked {
		t.Errorf("after acked: %+v", rec)
	}
}

func TestScanPendingSkipsAcked(t *testing.T) {
	ob := openTemp(t)
	for seq := uint64(1); seq <= 5; seq++ {
		if err := ob.Put(seq, []byte{byte(seq)}); err != nil {
			t.Fatal(err)
		}
	}
	if err := ob.MarkAcked(2); err != nil {
		t.Fatal(err)
	}
	if err := ob.MarkSent(3); err != nil {
		t.Fatal(err)
	}
	if err := ob.MarkFailed(4); err != nil {
		t.Fatal(err)
	}

	var seen []uint64
	err := ob.ScanPending(func(rec Record) error {
		seen = append(seen, rec.Seq)
		return nil
	})
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	want := []uint64{1, 3, 4, 5}
	if len(seen) != len(want) {
		t.Fatalf("pending = %v, want %v", seen, want)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("pending = %v, want %v (seq order)", seen, want)
		}
	}
}

func TestDelete(t *testing.T) {
	ob := openTemp(t)
	if err := ob.Put(1, []byte("x")); err != nil {
		t.Fatal(err)
	}
	if err := ob.Delete(1); err != nil {
		t.Fatal(err)
	}
	if _, err := ob.Get(1); err == nil {
		t.Error("get after delete should fail")
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	in := Record{Seq: 42, State: StateFailed, Retries: 3, LastAttempt: 1700000000, Payload: []byte("hello")}
	out, err := decodeRecord(42, encodeRecord(in))
	if err != nil {
		t.Fatal(err)
	}
	if out.State != in.State || out.Retries != in.Retries || out.LastAttempt != in.LastAttempt {
		t.Errorf("out = %+v, want %+v", out, in)
	}
	if !bytes.Equal(out.Payload, in.Payload) {
		t.Errorf("payload = %q", out.Payload)
	}

	if _, err := decodeRecord(1, []byte{1, 2}); err == nil {
		t.Error("short record should fail to decode")
	}
}
