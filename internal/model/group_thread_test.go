package model

import "testing"

func TestGroupNameOrDefault(t *testing.T) {
	named := &GroupThread{GroupModel: GroupModel{Name: "climbing"}}
	if got := named.GroupNameOrDefault(); got != "climbing" {
		t.Fatalf("got %q, want climbing", got)
	}

	unnamed := &GroupThread{}
	if got := unnamed.GroupNameOrDefault(); got != DefaultGroupName() {
		t.Fatalf("got %q, want %q", got, DefaultGroupName())
	}
}

func TestMemberUuidsRoundTrip(t *testing.T) {
	var m GroupModel
	if err := m.SetMemberUuids([]string{"U1", "U2", "U3"}); err != nil {
		t.Fatalf("set: %v", err)
	}
	if m.MemberCnt != 3 {
		t.Fatalf("member count %d, want 3", m.MemberCnt)
	}

	got := m.MemberUuids()
	if len(got) != 3 || got[0] != "U1" || got[2] != "U3" {
		t.Fatalf("decoded %v", got)
	}
}

func TestMemberUuidsCorruptColumn(t *testing.T) {
	m := GroupModel{Members: "{not json"}
	if got := m.MemberUuids(); got != nil {
		t.Fatalf("corrupt column decoded to %v, want nil", got)
	}

	empty := GroupModel{}
	if got := empty.MemberUuids(); got != nil {
		t.Fatalf("empty column decoded to %v, want nil", got)
	}
}

func TestAvatarDiffers(t *testing.T) {
	a := GroupModel{Avatar: "avatars/a1.png"}
	same := GroupModel{Avatar: "avatars/a1.png"}
	other := GroupModel{Avatar: "avatars/a2.png"}

	if a.AvatarDiffers(&same) {
		t.Fatal("identical avatars reported as differing")
	}
	if !a.AvatarDiffers(&other) {
		t.Fatal("different avatars reported as identical")
	}
	if !a.AvatarDiffers(&GroupModel{}) {
		t.Fatal("cleared avatar reported as identical")
	}
}
