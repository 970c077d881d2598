package sdkconfig_test

import (
	"fmt"

	"github.com/matzehuels/robopom/pkg/sdkconfig"
)

func ExampleLatest() {
	pairs := []sdkconfig.VersionPair{
		{Platform: "4.4_r1", Suffix: "0"},
		{Platform: "5.0.0_r2", Suffix: "1"},
	}
	latest, _ := sdkconfig.Latest(pairs)
	fmt.Println(latest.SdkVersion())
	// Output:
	// 5.0.0_r2-robolectric-1
}

func ExampleResolve() {
	deps := []sdkconfig.Dependency{
		{GroupID: "org.robolectric", ArtifactID: "android-all", VersionToken: "artifactVersionString"},
		{GroupID: "org.robolectric", ArtifactID: "shadows-core", VersionToken: "ROBOLECTRIC_VERSION"},
		{GroupID: "org.json", ArtifactID: "json", VersionToken: `"20080701"`},
	}
	for _, d := range deps {
		fmt.Println(sdkconfig.Resolve(d, "5.0.0_r2-robolectric-1", "3.0"))
	}
	// Output:
	// org.robolectric:android-all:5.0.0_r2-robolectric-1
	// org.robolectric:shadows-core:3.0
	// org.json:json:20080701
}
