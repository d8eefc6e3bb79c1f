package i18n

// Key identifies a translatable string. The set is closed: every Key used by
// the application is declared here and listed in Keys.
type Key string

const (
	GeneralError   Key = "general.error"
	GeneralCreate  Key = "general.create"
	GeneralCancel  Key = "general.cancel"
	GeneralUpdate  Key = "general.update"
	GeneralArchive Key = "general.archive"
	GeneralSignin  Key = "general.signin"
	GeneralSignout Key = "general.signout"
	GeneralSave    Key = "general.save"
	GeneralDelete  Key = "general.delete"

	StorageRename Key = "storage.rename"
	StorageRemove Key = "storage.remove"
	StorageSwitch Key = "storage.switch"
	StorageNew    Key = "storage.new"

	SidebarSpaces        Key = "sidebar.spaces"
	SidebarTree          Key = "sidebar.tree"
	SidebarSearch        Key = "sidebar.search"
	SidebarTimeline      Key = "sidebar.timeline"
	SidebarBookmarks     Key = "sidebar.bookmarks"
	SidebarLabels        Key = "sidebar.labels"
	SidebarRecent        Key = "sidebar.recent"
	SidebarCreateSpace   Key = "sidebar.space.create"
	SidebarSignOutTeam   Key = "sidebar.signout.team"
	SidebarCreateDoc     Key = "sidebar.doc.create"
	SidebarCreateFolder  Key = "sidebar.folder.create"
	SidebarSeeMore       Key = "sidebar.timeline.more"
	SidebarNoResults     Key = "sidebar.search.empty"
	SidebarSearching     Key = "sidebar.search.pending"
	SidebarNoSpace       Key = "sidebar.space.none"
	SidebarUntitled      Key = "sidebar.untitled"
	SidebarDragging      Key = "sidebar.drag.active"
	SidebarDropHere      Key = "sidebar.drag.drop"
	SidebarCopyLink      Key = "sidebar.link.copy"
	SidebarBookmark      Key = "sidebar.bookmark"
	SidebarUnbookmark    Key = "sidebar.unbookmark"
	SidebarUnarchive     Key = "sidebar.unarchive"
	SidebarRename        Key = "sidebar.rename"
	SidebarConfirmDelete Key = "sidebar.delete.confirm"

	SortAZ          Key = "sort.az"
	SortZA          Key = "sort.za"
	SortLastUpdated Key = "sort.lastUpdated"
	SortDragDrop    Key = "sort.dragDrop"

	Spaces  Key = "spaces"
	Back    Key = "back"
	Help    Key = "help"
	Copied  Key = "copied"
	Close   Key = "close"
	Show    Key = "show"
	Hide    Key = "hide"
	Preview Key = "preview"
)

// Keys returns the complete key set in declaration order.
func Keys() []Key {
	return []Key{
		GeneralError, GeneralCreate, GeneralCancel, GeneralUpdate, GeneralArchive,
		GeneralSignin, GeneralSignout, GeneralSave, GeneralDelete,
		StorageRename, StorageRemove, StorageSwitch, StorageNew,
		SidebarSpaces, SidebarTree, SidebarSearch, SidebarTimeline, SidebarBookmarks,
		SidebarLabels, SidebarRecent, SidebarCreateSpace, SidebarSignOutTeam,
		SidebarCreateDoc, SidebarCreateFolder, SidebarSeeMore, SidebarNoResults,
		SidebarSearching, SidebarNoSpace, SidebarUntitled, SidebarDragging,
		SidebarDropHere, SidebarCopyLink, SidebarBookmark, SidebarUnbookmark,
		SidebarUnarchive, SidebarRename, SidebarConfirmDelete,
		SortAZ, SortZA, SortLastUpdated, SortDragDrop,
		Spaces, Back, Help, Copied, Close, Show, Hide, Preview,
	}
}
