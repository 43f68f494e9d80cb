package quantity

import "testing"

func TestIntegerize_RoundTrip(t *testing.T) {
	cases := []float64{20000, 21000.5, 0.05, 1000}
	for _, price := range cases {
		n := Integerize(price)
		back := Deintegerize(n)
		if diff := back - price; diff > 1e-6 || diff < -1e-6 {
			t.Errorf("Integerize/Deintegerize(%v) round-tripped to %v", price, back)
		}
	}
}

func TestIntegerize_Zero(t *testing.T) {
	if n := Integerize(0); n != 0 {
		t.Errorf("expected Integerize(0) == 0, got %d", n)
	}
}

func TestIntegerize_UnderflowPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for a value that underflows to a nonzero fraction below 1")
		}
	}()
	Integerize(1e-12)
}

func TestInt64_Arithmetic(t *testing.T) {
	a, b := Int64(100), Int64(-30)
	if sum := a.Add(b); sum != 70 {
		t.Errorf("expected 100 + (-30) == 70, got %d", sum)
	}
	if neg := a.Neg(); neg != -100 {
		t.Errorf("expected -100, got %d", neg)
	}
	if product := a.MulInt64(3); product != 300 {
		t.Errorf("expected 100*3 == 300, got %d", product)
	}
}

func TestInt64_AdditionOverflowPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on int64 addition overflow")
		}
	}()
	Int64(1<<62).Add(Int64(1 << 62))
}
